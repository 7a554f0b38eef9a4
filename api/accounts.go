package api

import (
	"context"
	"fmt"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

// Accounts covers the authenticated account surface: profile, point ledger,
// own Q&A history, and the answer reactions that award points.
type Accounts struct {
	gw *gateway.Client
}

func NewAccounts(gw *gateway.Client) *Accounts {
	return &Accounts{gw: gw}
}

type currentUserEnvelope struct {
	User *domain.User `json:"user"`
}

// Me fetches the identity behind the current token.
func (s *Accounts) Me(ctx context.Context) (*domain.User, error) {
	var payload currentUserEnvelope
	if err := s.gw.GetJSON(ctx, "CurrentUser", "/accounts/me/", &payload); err != nil {
		return nil, err
	}
	if payload.User == nil {
		return nil, domain.ErrUnexpectedResponse
	}
	return payload.User, nil
}

// Profile fetches the extended self view.
func (s *Accounts) Profile(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := s.gw.GetJSON(ctx, "Profile", "/accounts/profile/", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile patches the writable profile fields.
func (s *Accounts) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile
	if err := s.gw.PatchJSON(ctx, "UpdateProfile", "/accounts/profile/", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// PointHistory lists the point ledger, newest first.
func (s *Accounts) PointHistory(ctx context.Context) ([]domain.PointEntry, error) {
	var entries []domain.PointEntry
	if err := s.gw.GetJSON(ctx, "PointHistory", "/accounts/point-history/", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MyQuestions lists questions asked by the current user.
func (s *Accounts) MyQuestions(ctx context.Context) ([]domain.ProfileQuestion, error) {
	var questions []domain.ProfileQuestion
	if err := s.gw.GetJSON(ctx, "MyQuestions", "/accounts/my-questions/", &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// MyAnswers lists answers written by the current user.
func (s *Accounts) MyAnswers(ctx context.Context) ([]domain.ProfileAnswer, error) {
	var answers []domain.ProfileAnswer
	if err := s.gw.GetJSON(ctx, "MyAnswers", "/accounts/my-answers/", &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Recommendations lists the personalized item suggestions, best score first.
func (s *Accounts) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	var recommendations []domain.Recommendation
	if err := s.gw.GetJSON(ctx, "Recommendations", "/accounts/recommendations/", &recommendations); err != nil {
		return nil, err
	}
	return recommendations, nil
}

// Preferences fetches the shopping taste profile.
func (s *Accounts) Preferences(ctx context.Context) (*domain.Preference, error) {
	var preference domain.Preference
	if err := s.gw.GetJSON(ctx, "Preferences", "/accounts/preferences/", &preference); err != nil {
		return nil, err
	}
	return &preference, nil
}

// UpdatePreferences patches the writable preference fields.
func (s *Accounts) UpdatePreferences(ctx context.Context, update domain.PreferenceUpdate) (*domain.Preference, error) {
	var preference domain.Preference
	if err := s.gw.PatchJSON(ctx, "UpdatePreferences", "/accounts/preferences/", update, &preference); err != nil {
		return nil, err
	}
	return &preference, nil
}

// VoteResult reports the new helpful-vote tally after a vote.
type VoteResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	HelpfulVotes int    `json:"helpful_votes"`
}

// Vote records a helpful/unhelpful vote on an answer. Voting twice updates
// the existing vote server-side.
func (s *Accounts) Vote(ctx context.Context, answerID int, isHelpful bool) (*VoteResult, error) {
	payload := struct {
		IsHelpful bool `json:"is_helpful"`
	}{isHelpful}

	var result VoteResult
	path := fmt.Sprintf("/accounts/answers/%d/vote/", answerID)
	if err := s.gw.PostJSON(ctx, "VoteAnswer", path, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkBest selects an answer as the question's best answer, which awards the
// reward points and closes the question.
func (s *Accounts) MarkBest(ctx context.Context, answerID int) (*Action, error) {
	var result Action
	path := fmt.Sprintf("/accounts/answers/%d/best/", answerID)
	if err := s.gw.PostJSON(ctx, "MarkBestAnswer", path, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
