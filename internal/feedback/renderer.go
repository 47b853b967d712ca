package feedback

import (
	"context"
	"io"
	"log"

	"github.com/olivier-w/levelmeter/internal/ballistics"
	"github.com/olivier-w/levelmeter/internal/level"
	"github.com/olivier-w/levelmeter/internal/meter"
)

// Resolver expands host variables inside a text value, e.g. "$(mixer:ch1)".
type Resolver interface {
	Resolve(ctx context.Context, text string) (string, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, text string) (string, error)

func (f ResolverFunc) Resolve(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// passthrough leaves text untouched.
var passthrough = ResolverFunc(func(_ context.Context, text string) (string, error) {
	return text, nil
})

// Request is one render call for one meter instance.
type Request struct {
	ControlID  string
	FeedbackID string
	Options    Options
}

// Key returns the ballistics key of the meter instance.
func (r Request) Key() ballistics.Key {
	return ballistics.NewKey(r.ControlID, r.FeedbackID)
}

// Result is the outcome of a render.
type Result struct {
	Image  *meter.PixelBuffer
	State  ballistics.State
	Config meter.Config
	Raw    float64 // parsed level fed to the ballistics, after fallback
	Parsed bool    // false when Raw is the silence fallback
}

// Renderer turns requests into meter images, keeping ballistics state per
// meter instance.
type Renderer struct {
	engine   *ballistics.Engine
	resolver Resolver
	logger   *log.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithResolver sets the variable resolver used on text values.
func WithResolver(res Resolver) Option {
	return func(r *Renderer) {
		if res != nil {
			r.resolver = res
		}
	}
}

// WithLogger sets where resolver failures and fallbacks are reported.
func WithLogger(l *log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a renderer. A nil engine gets a fresh one.
func NewRenderer(engine *ballistics.Engine, opts ...Option) *Renderer {
	if engine == nil {
		engine = ballistics.NewEngine(nil)
	}
	r := &Renderer{
		engine:   engine,
		resolver: passthrough,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Engine returns the ballistics engine behind the renderer.
func (r *Renderer) Engine() *ballistics.Engine { return r.engine }

// Render resolves and parses the value, advances the instance's ballistics
// and draws the meter. It always returns an image.
func (r *Renderer) Render(ctx context.Context, req Request) Result {
	cfg := req.Options.Config()
	key := req.Key()

	raw, ok := level.Parse(r.resolve(ctx, key, req.Options.Value))
	if !ok {
		r.logger.Printf("%s: unparseable level %v, using %v dB", key, req.Options.Value, level.Silence)
		raw = level.Silence
	}

	st := r.engine.Update(key, raw)
	img := meter.Render(meter.Reading{DB: st.Value, Peak: st.Peak, ShowPeak: true}, cfg)

	return Result{Image: img, State: st, Config: cfg, Raw: raw, Parsed: ok}
}

func (r *Renderer) resolve(ctx context.Context, key ballistics.Key, v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	out, err := r.resolver.Resolve(ctx, s)
	if err != nil {
		r.logger.Printf("%s: resolve %q: %v", key, s, err)
		return s
	}
	return out
}
