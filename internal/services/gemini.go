package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"concurso-backend/internal/ids"
	"concurso-backend/internal/models"
)

// UpdateChannel is the pub/sub channel feeding the websocket hub.
const UpdateChannel = "study_updates"

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	redis    *redis.Client
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int, redisClient *redis.Client) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-3-flash-preview")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	// Token bucket for rate limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		redis:    redisClient,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PublishUpdate sends a WebSocket update via Redis pub/sub
func (s *GeminiService) PublishUpdate(ctx context.Context, msg models.WSMessage) {
	data, _ := json.Marshal(msg)
	s.redis.Publish(ctx, UpdateChannel, string(data))
}

// AnalyzeEdital extracts the role/subject weighting structure from an exam
// announcement PDF. An unparseable response degrades to an empty slice; the
// caller decides whether zero roles is an error.
func (s *GeminiService) AnalyzeEdital(ctx context.Context, pdfData []byte) ([]models.CargoData, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdfData},
		genai.Text(buildEditalPrompt()),
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var cargos []models.CargoData
	if err := json.Unmarshal([]byte(rawText), &cargos); err != nil {
		// Try to extract JSON array
		if arr := sliceJSONArray(rawText); arr != "" {
			json.Unmarshal([]byte(arr), &cargos)
		}
	}

	return cargos, nil
}

// AnalyzeExam maps the topics and examiner profile of a past exam paper.
// Parse failures degrade to empty topics and a neutral profile.
func (s *GeminiService) AnalyzeExam(ctx context.Context, pdfData []byte) ([]models.StudyTopic, *models.ExamProfile, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, nil, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdfData},
		genai.Text(buildExamPrompt()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var parsed struct {
		Topics  []models.StudyTopic `json:"topics"`
		Profile models.ExamProfile  `json:"profile"`
	}
	if err := json.Unmarshal([]byte(rawText), &parsed); err != nil {
		if obj := sliceJSONObject(rawText); obj != "" {
			json.Unmarshal([]byte(obj), &parsed)
		}
	}

	if parsed.Profile.Difficulty == "" {
		parsed.Profile.Difficulty = "Média"
	}
	return parsed.Topics, &parsed.Profile, nil
}

// GenerateQuestions synthesizes count practice questions about subject from
// the attached PDF. Every returned question is tagged with the requested
// subject verbatim, overriding whatever the model answered, so aggregation
// grouping stays intact.
func (s *GeminiService) GenerateQuestions(ctx context.Context, pdfData []byte, subject, mode string, count int) ([]models.Question, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx,
		genai.Blob{MIMEType: "application/pdf", Data: pdfData},
		genai.Text(buildQuestionsPrompt(subject, mode, count)),
	)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	rawText := stripJSONFence(extractText(resp))

	var questions []models.Question
	if err := json.Unmarshal([]byte(rawText), &questions); err != nil {
		if arr := sliceJSONArray(rawText); arr != "" {
			json.Unmarshal([]byte(arr), &questions)
		}
	}

	return validateQuestions(questions, subject, mode), nil
}

// GetRecommendations returns free, line-oriented mentoring text for the
// given per-subject statistics.
func (s *GeminiService) GetRecommendations(ctx context.Context, subjects []models.SubjectAnalysis) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildRecommendationsPrompt(subjects)))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		log.Println("WARNING: Gemini returned empty recommendations. Using fallback.")
		text = "Continue focado nos seus simulados!"
	}
	return text, nil
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func stripJSONFence(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

func sliceJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

func sliceJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return ""
}

// validateQuestions coerces the model output into well-formed questions:
// subject and type are forced to the requested values, missing ids are
// filled in, and structurally broken items are dropped.
func validateQuestions(questions []models.Question, subject, mode string) []models.Question {
	var valid []models.Question
	for _, q := range questions {
		if strings.TrimSpace(q.Statement) == "" {
			continue
		}

		q.Type = mode
		q.Subject = subject
		if q.ID == "" {
			q.ID = ids.New()
		}

		switch mode {
		case models.QuestionMultiple:
			if len(q.Options) == 0 {
				continue
			}
		case models.QuestionBoolean:
			q.Options = nil
			upper := strings.ToUpper(strings.TrimSpace(q.CorrectOptionID))
			if upper != "C" && upper != "E" {
				continue
			}
			q.CorrectOptionID = upper
		case models.QuestionFlashcard:
			// Ungraded; the explanation carries the answer side.
			q.Options = nil
			q.CorrectOptionID = ""
		}

		valid = append(valid, q)
	}
	return valid
}

// Prompt builders

func buildEditalPrompt() string {
	var b strings.Builder

	b.WriteString("Você é um Engenheiro de Dados especializado em Editais de Concurso. Sua tarefa é extrair o DNA matemático deste concurso.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(`INSTRUÇÕES:
1. Localize a seção de "QUADRO DE PROVAS", "DA PROVA OBJETIVA" ou tabelas de pontuação.
2. Para cada CARGO identificado, extraia: nome da disciplina, quantidade de questões, peso de cada questão e a classificação (Conhecimentos Gerais vs. Específicos).
3. CALCULE o relevanceScore: (questões da matéria * peso) / (total de pontos da prova) * 100.
4. Mapeie os subtopics (tópicos a estudar) de cada disciplina.
5. Marque isParetoPriority nas disciplinas que concentram a maior parte da nota.
`)
	b.WriteString(`
JSON schema:
[{"name": "string", "topics": [{"subject": "string", "subtopics": ["string"], "relevanceScore": int 0-100, "isParetoPriority": bool, "questionCount": int, "knowledgeType": "Geral"|"Específico"}]}]
`)

	return b.String()
}

func buildExamPrompt() string {
	var b strings.Builder

	b.WriteString("Analise esta prova anterior de concurso. Identifique os temas cobrados e o perfil da banca examinadora.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`
JSON schema:
{"topics": [{"subject": "string", "subtopics": ["string"], "relevanceScore": int 0-100, "isParetoPriority": bool}], "profile": {"difficulty": "Fácil"|"Média"|"Difícil"|"Extrema", "styleDescription": "string", "predominantSubjects": ["string"]}}
`)

	return b.String()
}

func buildQuestionsPrompt(subject, mode string, count int) string {
	var modeDesc string
	switch mode {
	case models.QuestionBoolean:
		modeDesc = `certo/errado (use estritamente "C" para Certo e "E" para Errado no campo correctOptionId)`
	case models.QuestionFlashcard:
		modeDesc = "flashcard (a resposta vai no campo explanation; não use options nem correctOptionId)"
	default:
		modeDesc = "múltipla escolha"
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Gere %d itens de %s sobre %q baseando-se no documento anexo.\n\n", count, modeDesc, subject))
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(`REGRAS:
1. Se for múltipla escolha, as opções devem ter IDs 'A', 'B', 'C', 'D', 'E'.
2. Se for certo/errado, use APENAS 'C' ou 'E' no campo correctOptionId.
3. Retorne a explicação detalhada do porquê a resposta está correta.
`)
	b.WriteString(`
JSON schema per item:
{"id": "string", "subject": "string", "topic": "string", "statement": "string", "options": [{"id": "string", "text": "string"}], "correctOptionId": "string", "explanation": "string"}
`)

	return b.String()
}

func buildRecommendationsPrompt(subjects []models.SubjectAnalysis) string {
	var stats strings.Builder
	for _, s := range subjects {
		stats.WriteString(fmt.Sprintf("%s: %d%% de acerto (%d questões)\n", s.Name, int(s.Accuracy*100+0.5), s.TotalQuestions))
	}

	var b strings.Builder

	b.WriteString("Você é um Tutor de Concursos de Elite. Analise o desempenho do aluno e forneça orientações estratégicas.\n\n")
	b.WriteString("DADOS DO ALUNO:\n")
	b.WriteString(stats.String())
	b.WriteString(`
Sua tarefa:
1. Identifique as matérias com desempenho CRÍTICO (abaixo de 70%).
2. Para cada matéria crítica, cite o nome dela e dê um conselho pedagógico prático.
3. Se o desempenho for excelente em tudo (>85%), sugira técnicas de manutenção como flashcards e revisões espaçadas.
4. Seja direto, motivador e técnico.

Retorne uma lista de sugestões curtas (máximo 4 itens), uma por linha, texto puro.`)

	return b.String()
}
