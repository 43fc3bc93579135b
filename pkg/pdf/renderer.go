package pdf

import (
	"context"
	"fmt"
	"io"
	"sync"

	"mockview_backend/pkg/logger"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodRenderer 通过无头 Chromium 把 HTML 打印为 PDF；首次使用时才启动或连接浏览器
type RodRenderer struct {
	bin        string
	controlURL string

	mu       sync.Mutex
	browser  *rod.Browser
	launched *launcher.Launcher
}

// NewRodRenderer controlURL 非空时连接已有浏览器，否则按 bin（为空则自动查找/下载）启动
func NewRodRenderer(bin, controlURL string) *RodRenderer {
	return &RodRenderer{bin: bin, controlURL: controlURL}
}

func (r *RodRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		r.reset()
		return nil, fmt.Errorf("open page: %w", err)
	}
	// 关闭标签页不受请求 ctx 影响，超时或客户端断开时同样能回收
	defer closePage(page)

	return printPDF(page.Context(ctx), html)
}

func printPDF(page *rod.Page, html string) ([]byte, error) {
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{PrintBackground: true})
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	defer stream.Close()

	return io.ReadAll(stream)
}

func closePage(page *rod.Page) {
	if err := detachedPage(page).Close(); err != nil {
		logger.Log.Warn("Failed to close pdf page", zap.Error(err))
	}
}

// detachedPage 返回绑定 context.Background 的页面副本，用于清理
func detachedPage(page *rod.Page) *rod.Page {
	return page.Context(context.Background())
}

// Close 关闭浏览器连接，由本进程启动的浏览器一并结束
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closeLocked()
}

func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	controlURL := r.controlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.bin != "" {
			l = l.Bin(r.bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chromium: %w", err)
		}
		r.launched = l
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		r.killLaunched()
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	logger.Log.Info("PDF renderer connected to browser", zap.Bool("launched", r.launched != nil))
	r.browser = browser
	return browser, nil
}

// reset 浏览器失联后丢弃连接，下次调用重新建立
func (r *RodRenderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.closeLocked(); err != nil {
		logger.Log.Warn("Failed to close stale browser", zap.Error(err))
	}
}

func (r *RodRenderer) closeLocked() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.killLaunched()
	return err
}

func (r *RodRenderer) killLaunched() {
	if r.launched != nil {
		r.launched.Kill()
		r.launched.Cleanup()
		r.launched = nil
	}
}
