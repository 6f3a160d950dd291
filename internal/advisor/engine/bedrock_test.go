package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-advisor/internal/capability"
	"plant-advisor/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

// scriptedConverse plays back one ConverseOutput per turn and records every
// input it was called with.
type scriptedConverse struct {
	turns  []*bedrockruntime.ConverseOutput
	err    error
	inputs []*bedrockruntime.ConverseInput
}

func (s *scriptedConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	s.inputs = append(s.inputs, params)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.turns) == 0 {
		panic("scripted conversation ran out of turns")
	}
	out := s.turns[0]
	s.turns = s.turns[1:]
	return out, nil
}

func finalTextTurn(text string) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: types.StopReasonEndTurn,
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role:    types.ConversationRoleAssistant,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: text}},
			},
		},
	}
}

func toolUseTurn(toolName, toolUseID string, input map[string]interface{}) *bedrockruntime.ConverseOutput {
	return &bedrockruntime.ConverseOutput{
		StopReason: types.StopReasonToolUse,
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{
				Role: types.ConversationRoleAssistant,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberToolUse{
						Value: types.ToolUseBlock{
							ToolUseId: aws.String(toolUseID),
							Name:      aws.String(toolName),
							Input:     document.NewLazyDocument(input),
						},
					},
				},
			},
		},
	}
}

// recordingCapability answers with a fixed payload and keeps the inputs it saw.
type recordingCapability struct {
	name   string
	out    map[string]interface{}
	err    error
	inputs []map[string]interface{}
}

func (r *recordingCapability) Name() string        { return r.name }
func (r *recordingCapability) Description() string { return "recording" }
func (r *recordingCapability) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "required": []string{}}
}
func (r *recordingCapability) Call(_ context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	r.inputs = append(r.inputs, input)
	return r.out, r.err
}

func createTestEngine(t *testing.T, api ConverseAPI, caps ...capability.Capability) *Bedrock {
	t.Helper()
	return NewBedrock(api, "amazon.nova-lite-v1:0", 8, capability.NewRegistry(caps...), logger.NewTestLogger(t))
}

// ==========================
// Tests
// ==========================

func TestInvoke_FinalAnswerFirstTurn(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		finalTextTurn(`{"summary":"water tonight","details":{"Rose":"cover up"}}`),
	}}
	eng := createTestEngine(t, api)

	result, err := eng.Invoke(context.Background(), "Give me plant advice for user_id abc123")
	require.NoError(t, err)
	assert.Equal(t, "water tonight", result.Summary)
	assert.Equal(t, "cover up", result.Details["Rose"])

	require.Len(t, api.inputs, 1)
	in := api.inputs[0]
	assert.Equal(t, "amazon.nova-lite-v1:0", aws.ToString(in.ModelId))
	require.Len(t, in.System, 1)
	require.Len(t, in.Messages, 1)
	assert.Equal(t, types.ConversationRoleUser, in.Messages[0].Role)
}

func TestInvoke_ToolUseLoop(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		toolUseTurn("lookup", "tu-1", map[string]interface{}{"user_id": "abc123"}),
		finalTextTurn(`{"summary":"done","details":{}}`),
	}}
	lookup := &recordingCapability{name: "lookup", out: map[string]interface{}{"latitude": 51.5}}
	eng := createTestEngine(t, api, lookup)

	result, err := eng.Invoke(context.Background(), "instruction")
	require.NoError(t, err)
	assert.Equal(t, "done", result.Summary)

	require.Len(t, lookup.inputs, 1)
	assert.Equal(t, "abc123", lookup.inputs[0]["user_id"])

	// Second turn carries assistant tool-use plus the tool-result reply.
	require.Len(t, api.inputs, 2)
	msgs := api.inputs[1].Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, types.ConversationRoleAssistant, msgs[1].Role)
	assert.Equal(t, types.ConversationRoleUser, msgs[2].Role)
	_, isResult := msgs[2].Content[0].(*types.ContentBlockMemberToolResult)
	assert.True(t, isResult)
}

func TestInvoke_ToolConfigDeclaresCapabilities(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		finalTextTurn(`{"summary":"ok","details":{}}`),
	}}
	eng := createTestEngine(t, api,
		&recordingCapability{name: "alpha"},
		&recordingCapability{name: "beta"},
	)

	_, err := eng.Invoke(context.Background(), "instruction")
	require.NoError(t, err)

	tools := api.inputs[0].ToolConfig.Tools
	require.Len(t, tools, 2)
	spec, ok := tools[0].(*types.ToolMemberToolSpec)
	require.True(t, ok)
	assert.Equal(t, "alpha", aws.ToString(spec.Value.Name))
}

func TestInvoke_ConverseFailure(t *testing.T) {
	api := &scriptedConverse{err: errors.New("ThrottlingException: too many tokens")}
	eng := createTestEngine(t, api)

	_, err := eng.Invoke(context.Background(), "instruction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bedrock converse failed")
	assert.Contains(t, err.Error(), "ThrottlingException")
}

func TestInvoke_HardCapabilityFailureStopsConversation(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		toolUseTurn("lookup", "tu-1", map[string]interface{}{"user_id": "ghost"}),
	}}
	eng := createTestEngine(t, api, &recordingCapability{
		name: "lookup",
		err:  errors.New("no user data found for user ID 'ghost', please ensure it's registered"),
	})

	_, err := eng.Invoke(context.Background(), "instruction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user data found for user ID 'ghost'")
	assert.Len(t, api.inputs, 1)
}

func TestInvoke_UnknownToolRequested(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		toolUseTurn("does_not_exist", "tu-1", map[string]interface{}{}),
	}}
	eng := createTestEngine(t, api, &recordingCapability{name: "lookup"})

	_, err := eng.Invoke(context.Background(), "instruction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown capability")
}

func TestInvoke_TurnCap(t *testing.T) {
	// The model keeps asking for tools forever; the loop must stop.
	var turns []*bedrockruntime.ConverseOutput
	for i := 0; i < 3; i++ {
		turns = append(turns, toolUseTurn("lookup", "tu", map[string]interface{}{}))
	}
	api := &scriptedConverse{turns: turns}
	eng := NewBedrock(api, "amazon.nova-lite-v1:0", 3,
		capability.NewRegistry(&recordingCapability{name: "lookup", out: map[string]interface{}{}}),
		logger.NewTestLogger(t))

	_, err := eng.Invoke(context.Background(), "instruction")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded 3 tool turns")
}

// Tool-use inputs arrive as smithy documents; nested values must come out as
// the plain JSON types capabilities expect.
func TestInvoke_ToolInputDecoding(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		toolUseTurn("fetch", "tu-1", map[string]interface{}{
			"url":    "https://api.open-meteo.com/v1/forecast",
			"params": map[string]interface{}{"daily": []interface{}{"temperature_2m_max"}},
			"days":   float64(7),
		}),
		finalTextTurn(`{"summary":"ok","details":{}}`),
	}}
	fetch := &recordingCapability{name: "fetch", out: map[string]interface{}{}}
	eng := createTestEngine(t, api, fetch)

	_, err := eng.Invoke(context.Background(), "instruction")
	require.NoError(t, err)

	require.Len(t, fetch.inputs, 1)
	in := fetch.inputs[0]
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", in["url"])
	assert.Equal(t, float64(7), in["days"])
	params, ok := in["params"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"temperature_2m_max"}, params["daily"])
}

func TestInvoke_ProseFinalAnswer(t *testing.T) {
	api := &scriptedConverse{turns: []*bedrockruntime.ConverseOutput{
		finalTextTurn("Just water everything tomorrow morning."),
	}}
	eng := createTestEngine(t, api)

	result, err := eng.Invoke(context.Background(), "instruction")
	require.NoError(t, err)
	assert.Equal(t, "Just water everything tomorrow morning.", result.Summary)
	assert.Empty(t, result.Details)
}
