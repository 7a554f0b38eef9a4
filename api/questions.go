package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

// Questions covers the public Q&A surface: browsing threads, asking, and
// answering.
type Questions struct {
	gw *gateway.Client
}

func NewQuestions(gw *gateway.Client) *Questions {
	return &Questions{gw: gw}
}

// List fetches question summaries. params maps straight onto the endpoint's
// query string (category, status, ordering, ...); nil means no filter.
func (s *Questions) List(ctx context.Context, params url.Values) ([]domain.QuestionSummary, error) {
	path := "/questions/"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var questions []domain.QuestionSummary
	if err := s.gw.GetJSON(ctx, "ListQuestions", path, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Get fetches a full thread, answers included. Viewing bumps the server-side
// view counter for everyone but the author.
func (s *Questions) Get(ctx context.Context, id int) (*domain.Question, error) {
	var question domain.Question
	if err := s.gw.GetJSON(ctx, "GetQuestion", fmt.Sprintf("/questions/%d/", id), &question); err != nil {
		return nil, err
	}
	return &question, nil
}

// Stats fetches the aggregate Q&A counters.
func (s *Questions) Stats(ctx context.Context) (*domain.QAStats, error) {
	var stats domain.QAStats
	if err := s.gw.GetJSON(ctx, "QAStats", "/stats/", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreatedQuestion is the creation acknowledgement for a question.
type CreatedQuestion struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Category     string `json:"category"`
	Image        string `json:"image"`
	RewardPoints int    `json:"reward_points"`
	CreatedAt    string `json:"created_at"`
}

// Create posts a new question. With an image attached the request switches
// to multipart, otherwise plain JSON.
func (s *Questions) Create(ctx context.Context, draft domain.QuestionDraft) (*CreatedQuestion, error) {
	var created CreatedQuestion

	if draft.ImagePath != "" {
		fields := map[string]string{
			"title":         draft.Title,
			"content":       draft.Content,
			"category":      draft.Category,
			"reward_points": strconv.Itoa(draft.RewardPoints),
		}
		body, contentType, err := encodeMultipart(fields, "image", draft.ImagePath)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "build question upload", err)
		}
		if err := s.gw.PostMultipart(ctx, "CreateQuestion", "/questions/", body, contentType, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	payload := struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		Category     string `json:"category"`
		RewardPoints int    `json:"reward_points"`
	}{draft.Title, draft.Content, draft.Category, draft.RewardPoints}

	if err := s.gw.PostJSON(ctx, "CreateQuestion", "/questions/", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Answers lists the answers of one question.
func (s *Questions) Answers(ctx context.Context, questionID int) ([]domain.Answer, error) {
	path := "/answers/?question=" + strconv.Itoa(questionID)
	var answers []domain.Answer
	if err := s.gw.GetJSON(ctx, "ListAnswers", path, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// CreatedAnswer is the creation acknowledgement for an answer.
type CreatedAnswer struct {
	ID                  int    `json:"id"`
	Content             string `json:"content"`
	Question            int    `json:"question"`
	Image               string `json:"image"`
	RecommendedProducts []int  `json:"recommended_products"`
	CreatedAt           string `json:"created_at"`
}

// CreateAnswer posts an answer to a question, optionally with an image and
// up to three recommended products.
func (s *Questions) CreateAnswer(ctx context.Context, draft domain.AnswerDraft) (*CreatedAnswer, error) {
	var created CreatedAnswer

	if draft.ImagePath != "" {
		fields := map[string]string{
			"content":  draft.Content,
			"question": strconv.Itoa(draft.QuestionID),
		}
		if len(draft.RecommendedProducts) > 0 {
			// JSON field inside form data: the backend parses the string.
			encoded, err := json.Marshal(draft.RecommendedProducts)
			if err != nil {
				return nil, domain.WrapError(domain.ErrCodeInvalid, "encode recommended products", err)
			}
			fields["recommended_products"] = string(encoded)
		}
		body, contentType, err := encodeMultipart(fields, "image", draft.ImagePath)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInvalid, "build answer upload", err)
		}
		if err := s.gw.PostMultipart(ctx, "CreateAnswer", "/answers/create/", body, contentType, &created); err != nil {
			return nil, err
		}
		return &created, nil
	}

	payload := struct {
		Content             string `json:"content"`
		Question            int    `json:"question"`
		RecommendedProducts []int  `json:"recommended_products,omitempty"`
	}{draft.Content, draft.QuestionID, draft.RecommendedProducts}

	if err := s.gw.PostJSON(ctx, "CreateAnswer", "/answers/create/", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
