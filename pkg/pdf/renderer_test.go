package pdf

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本机 Chromium，设置 MOCKVIEW_PDF_TEST=1 时运行
func TestRodRendererRendersPDF(t *testing.T) {
	if os.Getenv("MOCKVIEW_PDF_TEST") == "" {
		t.Skip("set MOCKVIEW_PDF_TEST=1 to run against a local Chromium")
	}

	r := NewRodRenderer(os.Getenv("MOCKVIEW_BROWSER_BIN"), "")
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pdf, err := r.RenderPDF(ctx, "<html><body><h1>Interview Report Card</h1></body></html>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
}

func TestRodRendererCloseWithoutBrowser(t *testing.T) {
	r := NewRodRenderer("", "")
	assert.NoError(t, r.Close())
	assert.NoError(t, r.Close())
}

func TestDetachedPageIgnoresRequestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bound := (&rod.Page{}).Context(ctx)
	require.Error(t, bound.GetContext().Err())

	detached := detachedPage(bound)
	assert.NoError(t, detached.GetContext().Err())
	assert.Error(t, bound.GetContext().Err(), "the request-bound page must keep its own context")
}

// 渲染超时后标签页仍需关闭，浏览器中不应多出页面
func TestRodRendererClosesPageAfterTimeout(t *testing.T) {
	if os.Getenv("MOCKVIEW_PDF_TEST") == "" {
		t.Skip("set MOCKVIEW_PDF_TEST=1 to run against a local Chromium")
	}

	r := NewRodRenderer(os.Getenv("MOCKVIEW_BROWSER_BIN"), "")
	defer r.Close()

	browser, err := r.ensureBrowser()
	require.NoError(t, err)
	before, err := browser.Pages()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err = r.RenderPDF(ctx, "<html><body>timeout</body></html>")
	require.Error(t, err)

	after, err := browser.Pages()
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}
