package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"mockview_backend/internal/model"
	"mockview_backend/internal/util"
	"mockview_backend/pkg/filewatcher"
	"mockview_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

var (
	topicNamePattern   = regexp.MustCompile(`^[A-Za-z0-9_+\-]+$`)
	questionExtensions = []string{".json", ".yaml", ".yml"}
)

// QuestionRepository 按主题文件加载题库，进程级只读缓存，同一主题同时只有一个加载者
type QuestionRepository struct {
	dataPath    string
	topicsIndex string

	mu    sync.RWMutex
	cache map[string][]model.Question
	group singleflight.Group
}

func NewQuestionRepository(dataPath, topicsIndex string) *QuestionRepository {
	return &QuestionRepository{
		dataPath:    dataPath,
		topicsIndex: topicsIndex,
		cache:       make(map[string][]model.Question),
	}
}

func (r *QuestionRepository) DataPath() string {
	return r.dataPath
}

// ListTopics topics 索引的键与目录下题库文件名的并集，排序返回；
// 命令行新生成的主题文件未写入索引时同样可见
func (r *QuestionRepository) ListTopics() ([]string, error) {
	seen := make(map[string]struct{})
	topics := []string{}
	add := func(topic string) {
		if _, dup := seen[topic]; dup {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}

	indexed := false
	if r.topicsIndex != "" {
		index, err := r.loadIndex()
		switch {
		case err == nil:
			indexed = true
			for topic := range index {
				add(topic)
			}
		case !os.IsNotExist(err):
			logger.Log.Warn("Failed to read topics index, scanning data dir",
				zap.String("index", r.indexPath()), zap.Error(err))
		}
	}

	entries, err := os.ReadDir(r.dataPath)
	if err != nil {
		if indexed {
			logger.Log.Warn("Failed to scan question dir, using topics index only",
				zap.String("dir", r.dataPath), zap.Error(err))
			sort.Strings(topics)
			return topics, nil
		}
		return nil, fmt.Errorf("read question dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == filepath.Base(r.topicsIndex) {
			continue
		}
		if topic, ok := topicFromFileName(entry.Name()); ok {
			add(topic)
		}
	}
	sort.Strings(topics)
	return topics, nil
}

// LoadTopic 读取主题题库；首次访问时加载文件并缓存，失败不缓存
func (r *QuestionRepository) LoadTopic(topic string) ([]model.Question, error) {
	if !topicNamePattern.MatchString(topic) {
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidTopic, topic)
	}

	if qs, ok := r.cached(topic); ok {
		return qs, nil
	}

	v, err, _ := r.group.Do(topic, func() (interface{}, error) {
		if qs, ok := r.cached(topic); ok {
			return qs, nil
		}
		path, err := r.topicFile(topic)
		if err != nil {
			return nil, err
		}
		qs, err := readQuestionFile(path)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[topic] = qs
		r.mu.Unlock()

		logger.Log.Debug("Question topic loaded", zap.String("topic", topic), zap.Int("questions", len(qs)))
		return qs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Question), nil
}

// Invalidate 丢弃主题缓存，下次访问重新读取文件
func (r *QuestionRepository) Invalidate(topic string) {
	r.mu.Lock()
	delete(r.cache, topic)
	r.mu.Unlock()
}

// Preload 启动时预加载所有主题，单个主题失败只记录日志
func (r *QuestionRepository) Preload() (int, error) {
	topics, err := r.ListTopics()
	if err != nil {
		return 0, err
	}
	loaded := 0
	for _, topic := range topics {
		if _, err := r.LoadTopic(topic); err != nil {
			logger.Log.Error("Failed to preload topic", zap.String("topic", topic), zap.Error(err))
			continue
		}
		loaded++
	}
	return loaded, nil
}

// Watch 监听题库目录，文件变更时使对应主题缓存失效
func (r *QuestionRepository) Watch(ctx context.Context) error {
	return filewatcher.Watch(ctx, r.dataPath, filewatcher.DefaultDebounce, func(paths []string) {
		for _, p := range paths {
			topic, ok := topicFromFileName(filepath.Base(p))
			if !ok {
				continue
			}
			r.Invalidate(topic)
			logger.Log.Info("Question file changed, cache invalidated", zap.String("topic", topic), zap.String("path", p))
		}
	})
}

// AppendQuestions 将新题追加到主题文件（不存在或无法解析时视为空），返回写入路径
func (r *QuestionRepository) AppendQuestions(topic string, questions []model.Question) (string, error) {
	if !topicNamePattern.MatchString(topic) {
		return "", fmt.Errorf("%w: %q", util.ErrInvalidTopic, topic)
	}

	path, err := r.topicFile(topic)
	if err != nil {
		path = filepath.Join(r.dataPath, topic+".json")
	}

	existing, err := readQuestionFile(path)
	if err != nil {
		existing = nil
	}
	merged := append(existing, questions...)

	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(merged)
	default:
		data, err = json.MarshalIndent(merged, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("encode questions: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write questions: %w", err)
	}

	r.Invalidate(topic)
	return path, nil
}

func (r *QuestionRepository) cached(topic string) ([]model.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	qs, ok := r.cache[topic]
	return qs, ok
}

func (r *QuestionRepository) topicFile(topic string) (string, error) {
	for _, ext := range questionExtensions {
		path := filepath.Join(r.dataPath, topic+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("question file for topic %q not found in %s: %w", topic, r.dataPath, os.ErrNotExist)
}

func (r *QuestionRepository) indexPath() string {
	if filepath.IsAbs(r.topicsIndex) {
		return r.topicsIndex
	}
	return filepath.Join(r.dataPath, r.topicsIndex)
}

// loadIndex topics 索引：主题名 -> 标签列表
func (r *QuestionRepository) loadIndex() (map[string][]string, error) {
	path := r.indexPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var index map[string][]string
	if err := decodeByExt(path, data, &index); err != nil {
		return nil, fmt.Errorf("parse topics index: %w", err)
	}
	return index, nil
}

func readQuestionFile(path string) ([]model.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []model.Question
	if err := decodeByExt(path, data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	questions := make([]model.Question, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, q := range raw {
		if q.ID == "" {
			logger.Log.Warn("Skipping question without id", zap.String("file", path))
			continue
		}
		if _, dup := seen[q.ID]; dup {
			logger.Log.Warn("Duplicate question id", zap.String("file", path), zap.String("id", q.ID))
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}
	return questions, nil
}

func decodeByExt(path string, data []byte, out interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.NewDecoder(bytes.NewReader(data)).Decode(out)
	default:
		return json.Unmarshal(data, out)
	}
}

func topicFromFileName(name string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range questionExtensions {
		if ext == allowed {
			topic := strings.TrimSuffix(name, filepath.Ext(name))
			return topic, topicNamePattern.MatchString(topic)
		}
	}
	return "", false
}
