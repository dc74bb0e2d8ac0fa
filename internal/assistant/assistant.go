// Package assistant is the optional schedule-explainer chat service:
// a go-openai-backed chat loop that answers questions about an
// already solved roster run, with history persisted in
// roster_chat_history.
package assistant

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Assistant answers questions about a solved roster.Result using a
// chat-completion model, grounding its system prompt in the run's
// actual schedule so it can't hallucinate assignments.
type Assistant struct {
	db *sql.DB
}

func New(db *sql.DB) *Assistant {
	return &Assistant{db: db}
}

func (a *Assistant) apiKey() (string, error) {
	var key string
	err := a.db.QueryRow(`SELECT value FROM settings WHERE key = 'openai_api_key'`).Scan(&key)
	if err != nil || key == "" {
		return "", fmt.Errorf("OpenAI API key not configured; set it in settings")
	}
	return key, nil
}

func (a *Assistant) model() string {
	var model string
	if err := a.db.QueryRow(`SELECT value FROM settings WHERE key = 'ai_model'`).Scan(&model); err != nil || model == "" {
		return "gpt-4o-mini"
	}
	return model
}

// Ask answers userMessage about runID's solved schedule, persisting
// both sides of the exchange to roster_chat_history.
func (a *Assistant) Ask(ctx context.Context, runID int64, result roster.Result, userMessage string) (string, error) {
	apiKey, err := a.apiKey()
	if err != nil {
		return "", err
	}

	if _, err := a.db.Exec(
		`INSERT INTO roster_chat_history (run_id, person_id, role, content) VALUES (?, '', 'user', ?)`,
		runID, userMessage,
	); err != nil {
		return "", fmt.Errorf("save chat message: %w", err)
	}

	history, err := a.history(runID, 10)
	if err != nil {
		return "", err
	}

	client := openai.NewClient(apiKey)

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt(result),
		},
	}
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.model(),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	if _, err := a.db.Exec(
		`INSERT INTO roster_chat_history (run_id, person_id, role, content) VALUES (?, '', 'assistant', ?)`,
		runID, reply,
	); err != nil {
		return "", fmt.Errorf("save chat reply: %w", err)
	}

	return reply, nil
}

// History returns the persisted chat transcript for a run, oldest first.
func (a *Assistant) History(runID int64) ([]openai.ChatCompletionMessage, error) {
	return a.history(runID, 0)
}

func (a *Assistant) history(runID int64, limit int) ([]openai.ChatCompletionMessage, error) {
	query := `SELECT role, content FROM roster_chat_history WHERE run_id = ? ORDER BY created_at ASC`
	args := []interface{}{runID}
	if limit > 0 {
		query = `SELECT role, content FROM (
			SELECT role, content, created_at FROM roster_chat_history WHERE run_id = ? ORDER BY created_at DESC LIMIT ?
		) ORDER BY created_at ASC`
		args = append(args, limit)
	}

	rows, err := a.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	defer rows.Close()

	var messages []openai.ChatCompletionMessage
	for rows.Next() {
		var role, content string
		if err := rows.Scan(&role, &content); err != nil {
			return nil, err
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: content})
	}
	return messages, nil
}

// ClearHistory deletes the persisted chat transcript for a run.
func (a *Assistant) ClearHistory(runID int64) error {
	_, err := a.db.Exec(`DELETE FROM roster_chat_history WHERE run_id = ?`, runID)
	return err
}

func systemPrompt(result roster.Result) string {
	var sb strings.Builder
	sb.WriteString("You are a scheduling assistant explaining a solved duty roster to the person who requested it.\n")
	sb.WriteString(fmt.Sprintf("Solve status: %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("Difficulty: %s, availability ratio: %.2f, heavy-constraint people: %d\n",
		result.Diagnostics.Difficulty, result.Diagnostics.AvailabilityRatio, result.Diagnostics.HeavyCount))

	if result.Schedule == nil {
		sb.WriteString("No schedule was produced for this run; explain the status and suggest what the caller could relax.\n")
		return sb.String()
	}

	names := make([]string, 0, len(result.Schedule.People))
	for id := range result.Schedule.People {
		names = append(names, id)
	}
	sort.Strings(names)

	sb.WriteString("\nPer-person totals:\n")
	for _, id := range names {
		ps := result.Schedule.People[id]
		sb.WriteString(fmt.Sprintf("- %s: %d base days, %d home days, %d weekend-base days\n",
			id, ps.TotalBase, ps.TotalHome, ps.TotalWeekendBase))
	}

	sb.WriteString("\nAnswer questions about this schedule directly and concisely. Do not invent assignments that " +
		"aren't listed above; say so if something isn't covered by this data.\n")
	return sb.String()
}
