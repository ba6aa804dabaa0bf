package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"suraksha_backend/internal/config"
)

// AssistantService 面向学生的防灾问答助手，对接 OpenAI 兼容的聊天接口
type AssistantService struct {
	config config.AIConfig
}

func NewAssistantService(cfg config.AIConfig) *AssistantService {
	return &AssistantService{config: cfg}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const systemPrompt = "You are Suraksha, a disaster preparedness assistant for schools and universities. " +
	"You help students and staff learn about emergency response, evacuation procedures, first aid basics, " +
	"and disaster preparedness for earthquakes, fires, floods, cyclones and other hazards. " +
	"Give clear, step-by-step, actionable guidance appropriate for a campus setting. " +
	"If someone describes an emergency happening right now, always tell them to contact local emergency services first. " +
	"Politely decline questions unrelated to safety and disaster preparedness and steer the conversation back to the topic."

// PromptSuggestion 预置的快捷提问
type PromptSuggestion struct {
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Category string `json:"category"`
}

// PromptCatalog 按类别整理的快捷提问列表
func (s *AssistantService) PromptCatalog() []PromptSuggestion {
	return []PromptSuggestion{
		{Title: "Earthquake Response", Prompt: "What should I do during an earthquake? Please provide step-by-step instructions for both indoor and outdoor scenarios.", Category: "Emergency Response"},
		{Title: "Fire Safety", Prompt: "How should I respond to a fire emergency in a school building? Include evacuation procedures and safety protocols.", Category: "Emergency Response"},
		{Title: "Tornado Safety", Prompt: "What are the proper tornado safety procedures for schools? Where should students take shelter?", Category: "Emergency Response"},
		{Title: "Flood Response", Prompt: "How should schools respond to flood warnings and flooding? What are the evacuation procedures?", Category: "Emergency Response"},
		{Title: "Emergency Kit", Prompt: "What items should be included in a school emergency kit? Please provide a comprehensive list for different types of disasters.", Category: "Preparedness"},
		{Title: "Evacuation Planning", Prompt: "How do I create an effective evacuation plan for my school? What elements should be included?", Category: "Preparedness"},
		{Title: "Emergency Communication", Prompt: "How should schools communicate during emergencies? What systems and protocols are most effective?", Category: "Preparedness"},
		{Title: "Emergency Drills", Prompt: "How often should schools conduct emergency drills? What types of drills are most important?", Category: "Training"},
		{Title: "First Aid Basics", Prompt: "What are the essential first aid skills that school staff should know for emergency situations?", Category: "Training"},
		{Title: "Security Lockdown", Prompt: "What are the procedures for a security lockdown in schools? How should students and staff respond?", Category: "Security"},
		{Title: "Chemical Safety", Prompt: "How should schools respond to chemical spills or hazardous material incidents?", Category: "Safety"},
		{Title: "Power Outage", Prompt: "What procedures should schools follow during extended power outages or utility failures?", Category: "Infrastructure"},
	}
}

func (s *AssistantService) Configured() bool {
	return s.config.APIKey != "" && s.config.BaseURL != ""
}

func (s *AssistantService) buildMessages(prompt string, history []AIChatMessage) []AIChatMessage {
	messages := []AIChatMessage{{Role: "system", Content: systemPrompt}}
	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})
	return messages
}

// Chat 一次性返回完整回复
func (s *AssistantService) Chat(prompt string, history []AIChatMessage) (string, error) {
	if !s.Configured() {
		return "", errors.New("AI assistant is not configured")
	}

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": s.buildMessages(prompt, history),
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", err
	}
	if completion.Error != nil {
		return "", errors.New(completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("empty response from AI API")
	}
	return completion.Choices[0].Message.Content, nil
}

// ChatStream 流式回复，内容分片写入返回的通道
func (s *AssistantService) ChatStream(prompt string, history []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": s.buildMessages(prompt, history),
		"stream":   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		if !s.Configured() {
			errChan <- errors.New("AI assistant is not configured")
			return
		}

		req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

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

			var chunk ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				continue
			}
			if chunk.Error != nil {
				errChan <- errors.New(chunk.Error.Message)
				return
			}
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				out <- chunk.Choices[0].Delta.Content
			}
		}
	}()

	return out, errChan
}
