package assistant

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// quickAnswerMaxTokens caps live answers so generation stays fast
	// enough to be useful mid-interview.
	quickAnswerMaxTokens = 600
	analysisMaxTokens    = 2048
)

// OpenAIAssistant implements Answerer with the OpenAI chat API.
type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

// NewOpenAIAssistant creates an assistant backed by the given chat model.
func NewOpenAIAssistant(apiKey, model string) (*OpenAIAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assistant: OpenAI API key is required (set OPENAI_API_KEY)")
	}
	if model == "" {
		model = openai.GPT4o
	}
	return &OpenAIAssistant{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

// QuickAnswer generates a fast STAR-structured answer to the question.
func (a *OpenAIAssistant) QuickAnswer(ctx context.Context, question, transcript string, format Format) (string, error) {
	system, user := starPrompt(question, transcript, format)
	return a.complete(ctx, system, user, quickAnswerMaxTokens)
}

// Summarize generates a meeting summary from the transcript.
func (a *OpenAIAssistant) Summarize(ctx context.Context, transcript string) (string, error) {
	system := "You are an expert at summarizing meetings and extracting key information."
	user := `Please provide a comprehensive summary of this meeting transcript.
Include:
1. Main topics discussed
2. Key decisions made
3. Action items (if any)
4. Important points or takeaways

Meeting Transcript:
` + transcript
	return a.complete(ctx, system, user, analysisMaxTokens)
}

// InterviewPrep generates interview preparation materials from the transcript.
func (a *OpenAIAssistant) InterviewPrep(ctx context.Context, transcript string) (string, error) {
	system := `You are an expert career coach and interview preparation specialist.
Provide actionable, specific advice.`
	user := `Based on this interview/meeting transcript, please generate:

1. Key questions that were asked
2. Recommended answers or talking points for each question
3. Areas that might need more preparation
4. Overall assessment and tips

Interview/Meeting Transcript:
` + transcript
	return a.complete(ctx, system, user, analysisMaxTokens)
}

// ExtractQA produces a formatted Q&A document from the transcript.
func (a *OpenAIAssistant) ExtractQA(ctx context.Context, transcript string) (string, error) {
	system := `You are an expert communicator who excels at formulating
clear, professional answers to questions. Provide thoughtful, complete responses.`
	user := `Analyze this meeting/interview transcript and:

1. Identify all questions that were asked
2. For each question, provide a well-structured, professional answer
3. If answers were already given in the transcript, improve them
4. If questions weren't fully answered, provide complete answers

Format the output as:
Q1: [Question]
A1: [Detailed Answer]

Q2: [Question]
A2: [Detailed Answer]

Transcript:
` + transcript
	return a.complete(ctx, system, user, analysisMaxTokens)
}

// starPrompt builds the system and user prompts for a STAR format answer.
func starPrompt(question, transcript string, format Format) (system, user string) {
	system = `You are an expert interview coach helping a candidate answer live.
Structure answers in STAR format (Situation, Task, Action, Result), drawing
on the candidate's experience as heard in the conversation so far. If the
conversation gives no relevant experience, suggest a plausible strong answer
the candidate can adapt.`

	var style string
	switch format {
	case FormatFull:
		style = "Write a complete narrative answer covering each STAR component in flowing prose."
	default:
		style = "Respond with short bullet points: one concise bullet per STAR component."
	}

	user = fmt.Sprintf(`Conversation so far:
%s

Interview question: %s

%s Keep it specific and concrete.`, transcript, question, style)
	return system, user
}

func (a *OpenAIAssistant) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("assistant: completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
