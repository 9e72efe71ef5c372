package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"concurso-backend/internal/models"
	"concurso-backend/internal/repository"
	"concurso-backend/internal/services"
)

const generatedQuestionsTTL = time.Hour

// permanentError marks a failure that retrying cannot fix, like an edital
// the model found no cargos in.
type permanentError struct {
	code string
	msg  string
}

func (e *permanentError) Error() string { return e.msg }

type Pool struct {
	redis       *redis.Client
	gemini      *services.GeminiService
	report      *services.ReportService
	jobRepo     *repository.JobRepo
	fileRepo    *repository.FileRepo
	workerCount int
	stopChan    chan struct{}
}

func NewPool(
	redisClient *redis.Client,
	gemini *services.GeminiService,
	report *services.ReportService,
	jobRepo *repository.JobRepo,
	fileRepo *repository.FileRepo,
	workerCount int,
) *Pool {
	return &Pool{
		redis:       redisClient,
		gemini:      gemini,
		report:      report,
		jobRepo:     jobRepo,
		fileRepo:    fileRepo,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{
		"queue:" + models.JobEditalAnalysis,
		"queue:" + models.JobExamAnalysis,
		"queue:" + models.JobQuestionGeneration,
		"queue:" + models.JobRecommendation,
	}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Try to acquire lock
		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		p.jobRepo.UpdateStatus(ctx, job.ID, "processing")

		p.gemini.PublishUpdate(ctx, models.WSMessage{
			Type: "status_update",
			Payload: models.StatusUpdate{
				JobID:    job.ID,
				Step:     1,
				StepName: stepName(job.Type),
			},
		})

		var processErr error
		switch job.Type {
		case models.JobEditalAnalysis:
			processErr = p.processEdital(ctx, &job)
		case models.JobExamAnalysis:
			processErr = p.processExam(ctx, &job)
		case models.JobQuestionGeneration:
			processErr = p.processQuestionGeneration(ctx, &job)
		case models.JobRecommendation:
			processErr = p.processRecommendation(ctx, &job)
		default:
			processErr = fmt.Errorf("unknown job type: %s", job.Type)
		}

		if processErr != nil {
			p.handleFailure(ctx, &job, processErr)
		} else {
			p.handleSuccess(ctx, &job)
		}

		p.redis.Del(ctx, lockKey)
	}
}

// processEdital extracts cargos from an announcement PDF. One cargo is
// selected automatically; several park the file until the user picks.
func (p *Pool) processEdital(ctx context.Context, job *models.Job) error {
	file, err := p.fileRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	cargos, err := p.gemini.AnalyzeEdital(ctx, file.Data)
	if err != nil {
		return fmt.Errorf("edital analysis failed: %w", err)
	}

	switch len(cargos) {
	case 0:
		p.fileRepo.UpdateStatus(ctx, file.ID, models.FileStatusFailed)
		return &permanentError{code: "ANALYSIS_EMPTY", msg: "no cargos found in the announcement"}
	case 1:
		file.AvailableCargos = cargos
		file.SelectedCargoName = cargos[0].Name
		file.ParsedTopics = cargos[0].Topics
		file.Status = models.FileStatusReady
	default:
		file.AvailableCargos = cargos
		file.Status = models.FileStatusNeedsCargo
	}

	if err := p.fileRepo.UpdateAnalysis(ctx, file); err != nil {
		return fmt.Errorf("failed to save edital analysis: %w", err)
	}

	log.Printf("Edital %s analyzed: %d cargo(s)", file.ID, len(cargos))
	return nil
}

func (p *Pool) processExam(ctx context.Context, job *models.Job) error {
	file, err := p.fileRepo.GetByID(ctx, job.ReferenceID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	topics, profile, err := p.gemini.AnalyzeExam(ctx, file.Data)
	if err != nil {
		return fmt.Errorf("exam analysis failed: %w", err)
	}

	file.ParsedTopics = topics
	file.ExamProfile = profile
	file.Status = models.FileStatusReady

	if err := p.fileRepo.UpdateAnalysis(ctx, file); err != nil {
		return fmt.Errorf("failed to save exam analysis: %w", err)
	}

	log.Printf("Exam %s analyzed: %d subject(s)", file.ID, len(topics))
	return nil
}

// processQuestionGeneration produces a fresh question set and parks it in
// Redis for the client to collect. Generated sets are throwaway; they expire.
func (p *Pool) processQuestionGeneration(ctx context.Context, job *models.Job) error {
	var config models.GenerateQuestionsRequest
	if err := json.Unmarshal(job.ConfigJSON, &config); err != nil {
		return fmt.Errorf("invalid job config: %w", err)
	}

	file, err := p.fileRepo.GetByID(ctx, config.FileID)
	if err != nil {
		return fmt.Errorf("failed to get file: %w", err)
	}

	questions, err := p.gemini.GenerateQuestions(ctx, file.Data, config.Subject, config.Mode, config.Count)
	if err != nil {
		return fmt.Errorf("question generation failed: %w", err)
	}
	if len(questions) == 0 {
		return errors.New("model returned no usable questions")
	}

	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	if err := p.redis.Set(ctx, "generated:"+job.ID.String(), data, generatedQuestionsTTL).Err(); err != nil {
		return fmt.Errorf("failed to store questions: %w", err)
	}

	log.Printf("Generated %d question(s) for job %s", len(questions), job.ID)
	return nil
}

func (p *Pool) processRecommendation(ctx context.Context, job *models.Job) error {
	var config services.RecommendationConfig
	if err := json.Unmarshal(job.ConfigJSON, &config); err != nil {
		return fmt.Errorf("invalid job config: %w", err)
	}

	text, err := p.gemini.GetRecommendations(ctx, config.Subjects)
	if err != nil {
		return fmt.Errorf("recommendation generation failed: %w", err)
	}

	if !p.report.ApplyRecommendation(config.ProjectID, config.Seq, text) {
		log.Printf("Recommendation for project %s arrived stale (seq %d)", config.ProjectID, config.Seq)
	}
	return nil
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job) {
	p.jobRepo.UpdateStatus(ctx, job.ID, "completed")

	p.gemini.PublishUpdate(ctx, models.WSMessage{
		Type: "completed",
		Payload: models.CompletedEvent{
			JobID:      job.ID,
			ResultID:   job.ReferenceID,
			ResultType: resultType(job.Type),
		},
	})

	log.Printf("Job %s completed successfully", job.ID)
}

func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	job.RetryCount++
	errMsg := err.Error()

	var perm *permanentError
	if !errors.As(err, &perm) && job.RetryCount < 3 {
		// Re-queue with backoff
		log.Printf("Job %s failed (attempt %d): %s, retrying", job.ID, job.RetryCount, errMsg)
		p.jobRepo.UpdateStatus(ctx, job.ID, "pending")
		p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

		jobBytes, _ := json.Marshal(job)
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		time.AfterFunc(backoff, func() {
			p.redis.LPush(context.Background(), "queue:"+job.Type, string(jobBytes))
		})
		return
	}

	log.Printf("Job %s failed permanently: %s", job.ID, errMsg)
	p.jobRepo.UpdateStatus(ctx, job.ID, "failed")
	p.jobRepo.UpdateError(ctx, job.ID, errMsg, job.RetryCount)

	switch job.Type {
	case models.JobEditalAnalysis, models.JobExamAnalysis:
		p.fileRepo.UpdateStatus(ctx, job.ReferenceID, models.FileStatusFailed)
	case models.JobRecommendation:
		// The report keeps its previous narrative; nothing to surface.
		return
	}

	code := "JOB_FAILED"
	if perm != nil {
		code = perm.code
	}
	p.gemini.PublishUpdate(ctx, models.WSMessage{
		Type: "error",
		Payload: models.ErrorEvent{
			JobID:        job.ID,
			ErrorCode:    code,
			ErrorMessage: errMsg,
		},
	})
}

func stepName(jobType string) string {
	switch jobType {
	case models.JobEditalAnalysis:
		return "Analyzing announcement"
	case models.JobExamAnalysis:
		return "Analyzing exam paper"
	case models.JobQuestionGeneration:
		return "Generating questions"
	case models.JobRecommendation:
		return "Reviewing performance"
	default:
		return "Processing"
	}
}

func resultType(jobType string) string {
	switch jobType {
	case models.JobEditalAnalysis, models.JobExamAnalysis:
		return "file"
	case models.JobQuestionGeneration:
		return "questions"
	case models.JobRecommendation:
		return "report"
	default:
		return "job"
	}
}
