// Package a2a exposes the cognitive engine's Processor as an
// A2A-compliant agent: any A2A client can submit a stimulus and receive
// the resulting primary thought, with a summary of the CognitiveResult,
// in the task's completion message.
package a2a

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a2aproject/a2a-go/a2a"
	"github.com/a2aproject/a2a-go/a2asrv"
	"github.com/a2aproject/a2a-go/a2asrv/eventqueue"

	"github.com/cortexlabs/cogengine/internal/logging"
	"github.com/cortexlabs/cogengine/internal/promptbuilder"
	"github.com/cortexlabs/cogengine/internal/thought"
)

// Processor is the subset of processor.Processor the adapter depends on.
type Processor interface {
	Process(ctx context.Context, stimulus string, urgency, complexity, relevance float64, purpose string, extra promptbuilder.Context) (thought.CognitiveResult, error)
}

// CognitiveExecutor implements a2asrv.AgentExecutor over a Processor,
// surfacing each CognitiveResult's primary thought as a text part and a
// summary (thought count; the primary thought's confidence, completeness
// and type) as a data part of the task's completion message. The
// supporting thoughts themselves are not included.
type CognitiveExecutor struct {
	proc    Processor
	agentID string
	log     *logging.Logger
}

// NewCognitiveExecutor creates a CognitiveExecutor for agentID, routing
// every task through proc.
func NewCognitiveExecutor(proc Processor, agentID string) *CognitiveExecutor {
	return &CognitiveExecutor{
		proc:    proc,
		agentID: agentID,
		log:     logging.Global().WithComponent("a2a"),
	}
}

// Execute implements a2asrv.AgentExecutor. It runs the incoming message
// through the cognitive processor at Deliberate urgency/complexity and
// writes the result as a completed task.
func (e *CognitiveExecutor) Execute(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	e.log.Info("Execute: taskID=%s agent=%s", reqCtx.TaskID, e.agentID)

	working := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateWorking, nil)
	if err := queue.Write(ctx, working); err != nil {
		return fmt.Errorf("a2a: write working state: %w", err)
	}

	stimulus := extractText(reqCtx.Message)

	result, err := e.proc.Process(ctx, stimulus, 0.5, 0.6, 0.8, "a2a_request", promptbuilder.Context{})
	if err != nil {
		e.log.Error("Execute: process failed: %v", err)
		errMsg := a2a.NewMessage(a2a.MessageRoleAgent, a2a.TextPart{Text: fmt.Sprintf("error: %v", err)})
		failed := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateFailed, errMsg)
		failed.Final = true
		return queue.Write(ctx, failed)
	}

	parts := []a2a.Part{a2a.TextPart{Text: primaryText(result)}}
	parts = append(parts, a2a.DataPart{Data: resultMetadata(result)})

	responseMsg := a2a.NewMessage(a2a.MessageRoleAgent, parts...)
	complete := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateCompleted, responseMsg)
	complete.Final = true
	if err := queue.Write(ctx, complete); err != nil {
		return fmt.Errorf("a2a: write completed state: %w", err)
	}

	e.log.Info("Execute: completed taskID=%s thoughts=%d", reqCtx.TaskID, len(result.Thoughts))
	return nil
}

// Cancel implements a2asrv.AgentExecutor.
func (e *CognitiveExecutor) Cancel(ctx context.Context, reqCtx *a2asrv.RequestContext, queue eventqueue.Queue) error {
	cancelled := a2a.NewStatusUpdateEvent(reqCtx, a2a.TaskStateCanceled, nil)
	cancelled.Final = true
	return queue.Write(ctx, cancelled)
}

func extractText(msg *a2a.Message) string {
	if msg == nil {
		return ""
	}
	var text string
	for _, part := range msg.Parts {
		if tp, ok := part.(a2a.TextPart); ok {
			text += tp.Text
		}
	}
	return text
}

func primaryText(result thought.CognitiveResult) string {
	if result.PrimaryThought != nil {
		return result.PrimaryThought.Content
	}
	return ""
}

func resultMetadata(result thought.CognitiveResult) map[string]any {
	meta := map[string]any{
		"thought_count": len(result.Thoughts),
	}
	if result.PrimaryThought != nil {
		meta["confidence"] = result.PrimaryThought.Confidence
		meta["completeness"] = result.PrimaryThought.Completeness
		meta["type"] = string(result.PrimaryThought.Type)
	}
	return meta
}

// NewAgentCard builds the A2A agent card advertising the cognitive
// engine's single "think" skill at /.well-known/agent-card.json.
func NewAgentCard(agentID string, port int) *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:               agentID,
		Description:        "Tiered cognitive processing engine: reflex/reactive/deliberate/analytical/comprehensive reasoning over a stimulus.",
		Version:            "1.0.0",
		ProtocolVersion:    "0.3",
		URL:                fmt.Sprintf("http://localhost:%d/", port),
		PreferredTransport: a2a.TransportProtocolJSONRPC,
		Capabilities: a2a.AgentCapabilities{
			Streaming:              true,
			StateTransitionHistory: true,
		},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text", "application/json"},
		Skills: []a2a.AgentSkill{
			{
				ID:          "think",
				Name:        "Cognitive Processing",
				Description: "Routes a stimulus through the tiered cognitive engine and returns the resulting thought.",
				Tags:        []string{"reasoning", "cognitive-tiers"},
				InputModes:  []string{"text"},
				OutputModes: []string{"text", "application/json"},
			},
		},
	}
}

// NewServer wires a CognitiveExecutor into an A2A JSON-RPC handler and
// exposes agent card discovery.
func NewServer(proc Processor, agentID string, port int) http.Handler {
	executor := NewCognitiveExecutor(proc, agentID)
	handler := a2asrv.NewHandler(executor)

	mux := http.NewServeMux()
	mux.Handle("/", a2asrv.NewJSONRPCHandler(handler))
	mux.Handle(a2asrv.WellKnownAgentCardPath, a2asrv.NewStaticAgentCardHandler(NewAgentCard(agentID, port)))
	return mux
}
