package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lifeclover-platform/lifeclover/internal/llm"
	"github.com/lifeclover-platform/lifeclover/internal/metrics"
	"github.com/lifeclover-platform/lifeclover/internal/persona"
	"github.com/lifeclover-platform/lifeclover/internal/tools"
)

// Policy bounds one executor run. The companion runs an auto loop
// capped at MaxModelCalls; information mode makes at most two model
// calls and silently drops tool calls the second reply still requests,
// which avoids a known rejection class in the chat-completions API.
type Policy struct {
	MaxModelCalls        int
	DropPendingToolCalls bool
}

// AutoPolicy loops until the model stops requesting tools, capped at
// maxModelCalls rounds.
func AutoPolicy(maxModelCalls int) Policy {
	return Policy{MaxModelCalls: maxModelCalls}
}

// ManualPolicy performs one model call, one tool round, and one final
// model call, returning the second reply's text as-is.
func ManualPolicy() Policy {
	return Policy{MaxModelCalls: 2, DropPendingToolCalls: true}
}

// Stop reasons reported by the executor.
const (
	StopCompleted     = "completed"
	StopMaxModelCalls = "max_model_calls"
)

// Result describes one finished executor run.
type Result struct {
	Reply         string
	ModelCalls    int
	StoppedReason string
}

// Executor drives the persona/tool loop for one turn.
type Executor struct {
	client      llm.Client
	toolTimeout time.Duration
}

// NewExecutor creates a new Executor.
func NewExecutor(client llm.Client, toolTimeout time.Duration) *Executor {
	return &Executor{client: client, toolTimeout: toolTimeout}
}

// Run invokes the persona with the conversation and executes requested
// tools until the model produces a plain reply or the policy stops the
// loop. A single broken tool never fails the run; its failure is fed
// back to the model as a tool result.
func (e *Executor) Run(ctx context.Context, p persona.Persona, conversation []llm.Message, policy Policy) (*Result, error) {
	messages := make([]llm.Message, 0, len(conversation)+1)
	messages = append(messages, llm.System(p.System))
	messages = append(messages, conversation...)
	specs := p.Registry.Specs()

	calls := 0
	for {
		reply, err := e.client.Chat(ctx, messages, specs)
		if err != nil {
			return nil, fmt.Errorf("model call %d: %w", calls+1, err)
		}
		calls++
		metrics.ModelCallsTotal.WithLabelValues(p.Name).Inc()

		if len(reply.ToolCalls) == 0 {
			return &Result{Reply: reply.Content, ModelCalls: calls, StoppedReason: StopCompleted}, nil
		}

		if calls >= policy.MaxModelCalls {
			if policy.DropPendingToolCalls || reply.Content != "" {
				return &Result{Reply: reply.Content, ModelCalls: calls, StoppedReason: StopMaxModelCalls}, nil
			}
			return nil, fmt.Errorf("model call cap %d reached with pending tool calls", policy.MaxModelCalls)
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			name := call.Function.Name
			messages = append(messages, llm.ToolResult(call.ID, name, e.executeTool(ctx, p, call)))
		}
	}
}

// executeTool resolves and runs one tool call, converting every
// failure into a synthetic result string for the model.
func (e *Executor) executeTool(ctx context.Context, p persona.Persona, call llm.ToolCall) string {
	name := call.Function.Name

	args, err := call.Args()
	if err != nil {
		metrics.ToolExecutionsTotal.WithLabelValues(name, "error").Inc()
		return fmt.Sprintf("도구 실행 실패: %v", err)
	}

	toolCtx, cancel := context.WithTimeout(ctx, e.toolTimeout)
	defer cancel()

	out, err := p.Registry.Execute(toolCtx, name, args)
	if err != nil {
		var unknown *tools.UnknownToolError
		if errors.As(err, &unknown) {
			metrics.ToolExecutionsTotal.WithLabelValues(name, "unknown").Inc()
			return fmt.Sprintf("'%s' 도구를 찾을 수 없습니다.", name)
		}
		metrics.ToolExecutionsTotal.WithLabelValues(name, "error").Inc()
		return fmt.Sprintf("도구 실행 실패: %v", err)
	}
	metrics.ToolExecutionsTotal.WithLabelValues(name, "ok").Inc()
	return out
}
