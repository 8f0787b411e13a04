// Package synthesis turns collected records into one narrative by calling the text
// generation service with the variant's prompt template.
package synthesis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/briefing-monitor/internal/llm"
	"github.com/jonathan/briefing-monitor/internal/logging"
	"github.com/jonathan/briefing-monitor/internal/prompts"
	"github.com/jonathan/briefing-monitor/internal/types"
	"github.com/jonathan/briefing-monitor/internal/variants"
)

// Input is what a variant's prompt is built from. Records feed briefing templates,
// Metrics feeds the trend template; both are empty for the insight.
type Input struct {
	Now     time.Time
	Records []types.Record
	Metrics []types.MetricsRecord
}

// Count is the number of items the prompt describes.
func (in Input) Count() int {
	if len(in.Metrics) > 0 {
		return len(in.Metrics)
	}
	return len(in.Records)
}

// Result is the outcome of one synthesis call. Text is always populated: on failure it
// holds the variant's error label and the error message.
type Result struct {
	Text     string
	Prompt   string
	Model    string
	Duration time.Duration
	Err      error
}

// Degraded reports whether Text is an error placeholder rather than generated output.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Invoker calls the text generation service once per run.
type Invoker struct {
	client llm.Client
	logger *zap.Logger
}

// NewInvoker returns an invoker backed by client.
func NewInvoker(client llm.Client, logger *zap.Logger) *Invoker {
	return &Invoker{client: client, logger: logging.Component(logger, "synthesis")}
}

// Synthesize builds the prompt for v and returns the generated text verbatim.
func (inv *Invoker) Synthesize(ctx context.Context, v *variants.Variant, in Input) Result {
	tier := v.Tier()
	res := Result{}
	if inv.client != nil {
		res.Model = inv.client.GetModel(tier)
	}

	prompt, err := BuildPrompt(v, in)
	if err != nil {
		return inv.fail(v, res, err)
	}
	res.Prompt = prompt

	if inv.client == nil {
		return inv.fail(v, res, &APICallError{Message: "no text generation client configured"})
	}

	inv.logger.Info("requesting synthesis",
		zap.String("variant", v.Name),
		zap.String("model", res.Model),
		zap.Int("items", in.Count()),
		zap.Int("prompt_runes", len([]rune(prompt))),
		zap.Int("max_output_tokens", v.Prompt.MaxOutputTokens),
	)

	start := time.Now()
	text, err := inv.client.GenerateContent(ctx, prompt, tier, v.Prompt.MaxOutputTokens)
	res.Duration = time.Since(start)
	if err != nil {
		return inv.fail(v, res, &APICallError{Message: "failed to generate content", Cause: err})
	}

	res.Text = text
	inv.logger.Info("synthesis complete",
		zap.String("variant", v.Name),
		zap.Duration("duration", res.Duration),
		zap.Int("output_runes", len([]rune(text))),
	)
	return res
}

func (inv *Invoker) fail(v *variants.Variant, res Result, err error) Result {
	inv.logger.Error("synthesis failed", zap.String("variant", v.Name), zap.Error(err))
	res.Err = err
	res.Text = fmt.Sprintf("%s: %v", v.Prompt.ErrorLabel, err)
	return res
}

// BuildPrompt fills the variant's template with the input and the variant's fixed values.
func BuildPrompt(v *variants.Variant, in Input) (string, error) {
	data := make(map[string]string, len(v.Prompt.Values)+4)
	for k, val := range v.Prompt.Values {
		data[k] = val
	}
	data["Today"] = in.Now.Format(TodayLayout)
	data["Count"] = strconv.Itoa(in.Count())
	data["Articles"] = FormatArticles(in.Records)
	data["Data"] = FormatMetrics(in.Metrics)

	prompt, err := prompts.Render(prompts.BriefingFile, v.Prompt.Template, data)
	if err != nil {
		return "", &PromptError{Template: v.Prompt.Template, Message: "failed to render", Cause: err}
	}
	return prompt, nil
}
