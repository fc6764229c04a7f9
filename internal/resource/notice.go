package resource

import (
	"context"
	"sync"

	"github.com/angelmondragon/warehouse-console/pkg/enums"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
)

// Notice is the dismissible message shown after a mutation.
type Notice struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Variant     enums.NoticeVariant `json:"variant"`
}

type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

type NotifierFunc func(ctx context.Context, notice Notice)

func (f NotifierFunc) Notify(ctx context.Context, notice Notice) {
	f(ctx, notice)
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct {
	Logger *logger.Logger
}

func (n LogNotifier) Notify(ctx context.Context, notice Notice) {
	if n.Logger == nil {
		return
	}
	ctx = n.Logger.WithFields(ctx, map[string]any{
		"notice_title":   notice.Title,
		"notice_variant": notice.Variant.String(),
	})
	if notice.Variant == enums.NoticeVariantDestructive {
		n.Logger.Warn(ctx, notice.Description)
		return
	}
	n.Logger.Info(ctx, notice.Description)
}

type noticeKey struct{}

// Collector gathers the notices raised while handling one request so the
// console API can return them alongside the payload.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func WithCollector(ctx context.Context) (context.Context, *Collector) {
	c := &Collector{}
	return context.WithValue(ctx, noticeKey{}, c), c
}

// CollectorFrom returns the request's Collector, or nil outside WithCollector.
func CollectorFrom(ctx context.Context) *Collector {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(noticeKey{}).(*Collector)
	return c
}

func (c *Collector) Notices() []Notice {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// ContextNotifier appends to the request's Collector and forwards to Next.
type ContextNotifier struct {
	Next Notifier
}

func (n ContextNotifier) Notify(ctx context.Context, notice Notice) {
	if c, ok := ctx.Value(noticeKey{}).(*Collector); ok && c != nil {
		c.mu.Lock()
		c.notices = append(c.notices, notice)
		c.mu.Unlock()
	}
	if n.Next != nil {
		n.Next.Notify(ctx, notice)
	}
}
