// Package bridge runs one enrichment-and-completion invocation end to end.
package bridge

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/gpt-bridge/internal/config"
	"github.com/ziadkadry99/gpt-bridge/internal/journal"
	"github.com/ziadkadry99/gpt-bridge/internal/knowledge"
	"github.com/ziadkadry99/gpt-bridge/internal/llm"
	"github.com/ziadkadry99/gpt-bridge/internal/progress"
	"github.com/ziadkadry99/gpt-bridge/internal/prompt"
	"github.com/ziadkadry99/gpt-bridge/internal/reply"
)

// ErrEmptyInput is returned when no message was given.
var ErrEmptyInput = errors.New("empty user input")

// noInput is logged in place of the input when there was none.
const noInput = "N/A"

// CompleterFunc builds the completion provider once settings are valid.
type CompleterFunc func(config.LLMConfig) (llm.Provider, error)

// FactsFunc builds the fact source when enrichment is enabled.
type FactsFunc func(config.KnowledgeConfig) knowledge.Provider

// Options configures a Bridge.
type Options struct {
	Settings     *config.Settings
	NewCompleter CompleterFunc
	NewFacts     FactsFunc
	Out          io.Writer
	Journal      *journal.Journal
	Logger       *zap.Logger
	// Progress is shown while waiting on the network.
	Progress progress.Reporter
}

// Bridge sequences config validation, fact lookup, prompt composition,
// completion, output and logging for a single input.
type Bridge struct {
	settings     *config.Settings
	newCompleter CompleterFunc
	newFacts     FactsFunc
	out          io.Writer
	journal      *journal.Journal
	logger       *zap.Logger
	progress     progress.Reporter
}

// New creates a Bridge. Missing Journal and Logger fall back to the
// settings' log location and a no-op logger.
func New(opts Options) *Bridge {
	b := &Bridge{
		settings:     opts.Settings,
		newCompleter: opts.NewCompleter,
		newFacts:     opts.NewFacts,
		out:          opts.Out,
		journal:      opts.Journal,
		logger:       opts.Logger,
		progress:     opts.Progress,
	}
	if b.settings == nil {
		b.settings = config.DefaultSettings()
	}
	if b.newCompleter == nil {
		b.newCompleter = llm.NewProvider
	}
	if b.out == nil {
		b.out = io.Discard
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	if b.progress == nil {
		b.progress = progress.NopReporter{}
	}
	if b.journal == nil {
		b.journal = journal.New(b.settings.Log, b.logger)
	}
	return b
}

// JoinArgs turns command-line arguments into the raw user input.
func JoinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// Run handles input end to end. It always writes exactly one payload and
// attempts one log append. The returned error is non-nil on every path
// that must exit with a failure status.
func (b *Bridge) Run(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return b.Fail("", ErrEmptyInput)
	}

	if err := b.settings.Validate(); err != nil {
		return b.Fail(input, err)
	}

	completer, err := b.newCompleter(b.settings.LLM)
	if err != nil {
		return b.Fail(input, err)
	}

	text := prompt.Compose(input, b.fact(ctx))

	resp, err := b.complete(ctx, completer, text)
	if err != nil {
		return b.Fail(input, err)
	}

	b.emit(text, reply.Success(resp.Content))
	return nil
}

// Fail writes the error payload for err, logs input with it, and returns
// err so the caller can exit non-zero.
func (b *Bridge) Fail(input string, err error) error {
	b.logger.Error("Invocation failed", zap.Error(err))
	if input == "" {
		input = noInput
	}
	b.emit(input, reply.Failure(err.Error()))
	return err
}

// fact returns the enrichment fact, or "" when enrichment is off.
func (b *Bridge) fact(ctx context.Context) string {
	if b.newFacts == nil || !b.settings.Knowledge.Enabled() {
		return ""
	}
	source := b.newFacts(b.settings.Knowledge)
	if source == nil {
		return ""
	}
	b.progress.Start("Querying knowledge base")
	fact := source.Fact(ctx)
	b.progress.Stop()
	if fact != "" {
		b.logger.Debug("Enriching prompt with fact", zap.Int("fact_len", len(fact)))
	}
	return fact
}

func (b *Bridge) complete(ctx context.Context, completer llm.Provider, text string) (*llm.CompletionResponse, error) {
	cfg := b.settings.LLM
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	b.progress.Start("Waiting for " + cfg.Model)
	start := time.Now()
	resp, err := completer.Complete(ctx, llm.SingleTurn(cfg.Model, text, cfg.MaxTokens, cfg.Temperature))
	b.progress.Stop()
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &llm.CompletionResponse{}
	}

	b.logger.Info("Completion finished",
		zap.String("provider", completer.Name()),
		zap.String("model", cfg.Model),
		zap.Int("input_tokens", resp.InputTokens),
		zap.Int("output_tokens", resp.OutputTokens),
		zap.Float64("est_cost_usd", resp.Cost(cfg.Model)),
		zap.String("finish_reason", resp.FinishReason),
		zap.Duration("elapsed", time.Since(start)))
	return resp, nil
}

// emit prints the payload, then appends it to the journal. Neither failure
// changes the outcome already decided.
func (b *Bridge) emit(input string, payload reply.Payload) {
	if err := reply.Write(b.out, payload); err != nil {
		b.logger.Error("Failed to write reply", zap.Error(err))
	}
	if err := b.journal.Append(input, payload); err != nil {
		b.logger.Error("Failed to save log", zap.Error(err))
	}
}
