package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kiongozi_backend/internal/config"
	"kiongozi_backend/internal/model"
	"kiongozi_backend/internal/repository"
	"kiongozi_backend/internal/util"
)

// 注入历史的轮数上限，避免提示词无限膨胀
const assistantHistoryLimit = 20

// AssistantService AI学习助手：OpenAI兼容接口的流式对话，
// 历史记录按用户持久化，支持多轮上下文。
type AssistantService struct {
	config     config.AssistantConfig
	ChatRepo   *repository.ChatRepository
	CourseRepo *repository.CourseRepository
}

func NewAssistantService(cfg config.AssistantConfig, chatRepo *repository.ChatRepository, courseRepo *repository.CourseRepository) *AssistantService {
	return &AssistantService{
		config:     cfg,
		ChatRepo:   chatRepo,
		CourseRepo: courseRepo,
	}
}

type AssistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string             `json:"model"`
	Messages []AssistantMessage `json:"messages"`
	Stream   bool               `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message AssistantMessage `json:"message"`
		Delta   AssistantMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// systemPrompt 可选地带上课程背景
func (s *AssistantService) systemPrompt(courseID *uint) string {
	prompt := "你是Kiongozi学习平台的AI助教，请用清晰友好的方式解答学习者的问题。" +
		"严禁回答任何政治、色情、暴力或与学习无关的问题，超出范围时请礼貌地引导学习者回到课程话题。"

	if courseID != nil && s.CourseRepo != nil {
		if course, err := s.CourseRepo.FindByID(*courseID); err == nil {
			prompt += fmt.Sprintf("\n\n学习者当前正在学习课程《%s》。课程简介：%s", course.Title, course.Description)
		}
	}
	return prompt
}

// buildMessages 系统提示 + 历史对话 + 当前问题
func (s *AssistantService) buildMessages(userID uint, courseID *uint, prompt string) []AssistantMessage {
	messages := []AssistantMessage{
		{Role: "system", Content: s.systemPrompt(courseID)},
	}

	history, err := s.ChatRepo.RecentHistory(userID, assistantHistoryLimit)
	if err == nil {
		for _, h := range history {
			messages = append(messages, AssistantMessage{Role: h.Role, Content: h.Content})
		}
	}

	messages = append(messages, AssistantMessage{Role: "user", Content: prompt})
	return messages
}

// ChatStream 流式对话。回复逐块写入out通道，完整回复在流结束后落库。
func (s *AssistantService) ChatStream(userID uint, courseID *uint, prompt string) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	messages := s.buildMessages(userID, courseID, prompt)

	reqBody := chatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
		Stream:   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		client := &http.Client{Timeout: 5 * time.Minute}
		resp, err := client.Do(req)
		if err != nil {
			errChan <- fmt.Errorf("%w: %v", util.ErrAssistantUnavailable, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("%w (status %d): %s", util.ErrAssistantUnavailable, resp.StatusCode, string(body))
			return
		}

		var full strings.Builder

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp chatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					full.WriteString(content)
					out <- content
				}
			}
		}

		// 流结束后保存两条消息，助手的回复可以为空则不存
		s.ChatRepo.Save(&model.ChatMessage{UserID: userID, CourseID: courseID, Role: "user", Content: prompt})
		if full.Len() > 0 {
			s.ChatRepo.Save(&model.ChatMessage{UserID: userID, CourseID: courseID, Role: "assistant", Content: full.String()})
		}
	}()

	return out, errChan
}

// Chat 非流式对话，一次性返回完整回复
func (s *AssistantService) Chat(userID uint, courseID *uint, prompt string) (string, error) {
	messages := s.buildMessages(userID, courseID, prompt)

	reqBody := chatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w (status %d): %s", util.ErrAssistantUnavailable, resp.StatusCode, string(body))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", fmt.Errorf("%w: %s", util.ErrAssistantUnavailable, completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", util.ErrAssistantUnavailable)
	}

	answer := completion.Choices[0].Message.Content

	s.ChatRepo.Save(&model.ChatMessage{UserID: userID, CourseID: courseID, Role: "user", Content: prompt})
	s.ChatRepo.Save(&model.ChatMessage{UserID: userID, CourseID: courseID, Role: "assistant", Content: answer})

	return answer, nil
}

// History 按时间正序返回最近的对话
func (s *AssistantService) History(userID uint, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = assistantHistoryLimit
	}
	return s.ChatRepo.RecentHistory(userID, limit)
}

func (s *AssistantService) ClearHistory(userID uint) error {
	return s.ChatRepo.ClearHistory(userID)
}
