// Package engine adapts the hosted Bedrock model plus the declared
// capability set into the single Invoke operation the dispatcher consumes.
// One Invoke runs a Converse loop: the model asks for capabilities by name,
// the registry executes them, and the loop ends when the model produces its
// final advisory payload.
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"plant-advisor/internal/capability"
	"plant-advisor/internal/common/logger"
	"plant-advisor/internal/models"
)

// ConverseAPI is the slice of the Bedrock Runtime client the engine needs.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Bedrock drives the advisory conversation against a Bedrock-hosted model.
type Bedrock struct {
	client   ConverseAPI
	modelID  string
	maxTurns int
	caps     *capability.Registry
	logger   logger.Logger
}

func NewBedrock(client ConverseAPI, modelID string, maxTurns int, caps *capability.Registry, log logger.Logger) *Bedrock {
	return &Bedrock{
		client:   client,
		modelID:  modelID,
		maxTurns: maxTurns,
		caps:     caps,
		logger:   log.WithFields(map[string]interface{}{"component": "engine", "modelId": modelID}),
	}
}

// Invoke runs one advisory conversation for instruction. The call blocks
// until the model produces a final payload or fails; there is no partial
// result and no retry here.
func (b *Bedrock) Invoke(ctx context.Context, instruction string) (*models.AdvisoryResult, error) {
	messages := []types.Message{
		{
			Role:    types.ConversationRoleUser,
			Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: instruction}},
		},
	}

	toolConfig := b.toolConfig()

	for turn := 0; turn < b.maxTurns; turn++ {
		out, err := b.client.Converse(ctx, &bedrockruntime.ConverseInput{
			ModelId:  aws.String(b.modelID),
			Messages: messages,
			System: []types.SystemContentBlock{
				&types.SystemContentBlockMemberText{Value: systemPrompt},
			},
			ToolConfig: toolConfig,
		})
		if err != nil {
			return nil, fmt.Errorf("bedrock converse failed: %w", err)
		}

		msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
		if !ok {
			return nil, fmt.Errorf("bedrock returned no message output")
		}
		messages = append(messages, msg.Value)

		if out.StopReason == types.StopReasonToolUse {
			toolResults, err := b.runRequestedTools(ctx, msg.Value)
			if err != nil {
				return nil, err
			}
			messages = append(messages, toolResults)
			continue
		}

		return parseAdvisoryPayload(collectText(msg.Value))
	}

	return nil, fmt.Errorf("bedrock agent exceeded %d tool turns without a final answer", b.maxTurns)
}

// runRequestedTools executes every tool-use block in the assistant message
// and packs the results into the follow-up user message the Converse API
// expects.
func (b *Bedrock) runRequestedTools(ctx context.Context, msg types.Message) (types.Message, error) {
	var blocks []types.ContentBlock

	for _, content := range msg.Content {
		use, ok := content.(*types.ContentBlockMemberToolUse)
		if !ok {
			continue
		}

		name := aws.ToString(use.Value.Name)

		// Marshal-then-unmarshal instead of UnmarshalSmithyDocument: the
		// latter cannot target a plain map across document implementations.
		var input map[string]interface{}
		if use.Value.Input != nil {
			raw, err := use.Value.Input.MarshalSmithyDocument()
			if err != nil {
				return types.Message{}, fmt.Errorf("decode input for capability %q: %w", name, err)
			}
			if err := json.Unmarshal(raw, &input); err != nil {
				return types.Message{}, fmt.Errorf("decode input for capability %q: %w", name, err)
			}
		}

		b.logger.Info("executing capability", map[string]interface{}{"capability": name})

		result, err := b.caps.Call(ctx, name, input)
		if err != nil {
			// A hard capability failure ends the conversation; the error text
			// carries the pattern the classifier keys on.
			return types.Message{}, err
		}

		blocks = append(blocks, &types.ContentBlockMemberToolResult{
			Value: types.ToolResultBlock{
				ToolUseId: use.Value.ToolUseId,
				Content: []types.ToolResultContentBlock{
					&types.ToolResultContentBlockMemberJson{Value: document.NewLazyDocument(result)},
				},
			},
		})
	}

	if len(blocks) == 0 {
		return types.Message{}, fmt.Errorf("bedrock stopped for tool use without requesting a tool")
	}

	return types.Message{Role: types.ConversationRoleUser, Content: blocks}, nil
}

func (b *Bedrock) toolConfig() *types.ToolConfiguration {
	caps := b.caps.All()
	tools := make([]types.Tool, 0, len(caps))
	for _, c := range caps {
		tools = append(tools, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(c.Name()),
				Description: aws.String(c.Description()),
				InputSchema: &types.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(c.InputSchema()),
				},
			},
		})
	}
	return &types.ToolConfiguration{Tools: tools}
}

func collectText(msg types.Message) string {
	var text string
	for _, content := range msg.Content {
		if t, ok := content.(*types.ContentBlockMemberText); ok {
			text += t.Value
		}
	}
	return text
}
