package domain

// UserRef is the compact author reference nested in Q&A payloads.
type UserRef struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// QuestionSummary is one row of /questions/.
type QuestionSummary struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	CategoryDisplay string  `json:"category_display"`
	Status          string  `json:"status"`
	StatusDisplay   string  `json:"status_display"`
	ViewsCount      int     `json:"views_count"`
	AnswersCount    int     `json:"answers_count"`
	RewardPoints    int     `json:"reward_points"`
	CreatedAt       string  `json:"created_at"`
	User            UserRef `json:"user"`
}

// Question is the full thread served by /questions/{id}/, answers included.
type Question struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Category        string   `json:"category"`
	CategoryDisplay string   `json:"category_display"`
	Status          string   `json:"status"`
	StatusDisplay   string   `json:"status_display"`
	Image           string   `json:"image"`
	ViewsCount      int      `json:"views_count"`
	AnswersCount    int      `json:"answers_count"`
	RewardPoints    int      `json:"reward_points"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	User            UserRef  `json:"user"`
	Answers         []Answer `json:"answers"`
}

// IsClosed reports whether a best answer has already been chosen.
func (q *Question) IsClosed() bool {
	return q != nil && q.Status == "closed"
}

// AnswerVote is a single helpful/unhelpful vote on an answer.
type AnswerVote struct {
	ID        int    `json:"id"`
	IsHelpful bool   `json:"is_helpful"`
	CreatedAt string `json:"created_at"`
}

// RecommendedProduct is the inline product card attached to an answer.
type RecommendedProduct struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	BrandName  string  `json:"brand_name"`
	Price      float64 `json:"price"`
	ImageURL   string  `json:"image_url"`
	Condition  string  `json:"condition"`
	Size       string  `json:"size"`
	Color      string  `json:"color"`
	IsFeatured bool    `json:"is_featured"`
}

// Answer is one answer in a thread as served by /answers/.
type Answer struct {
	ID                         int                  `json:"id"`
	Content                    string               `json:"content"`
	Image                      string               `json:"image"`
	RecommendedProducts        []int                `json:"recommended_products"`
	RecommendedProductsDetails []RecommendedProduct `json:"recommended_products_details"`
	User                       UserRef              `json:"user"`
	IsBestAnswer               bool                 `json:"is_best_answer"`
	HelpfulVotes               int                  `json:"helpful_votes"`
	CreatedAt                  string               `json:"created_at"`
	UpdatedAt                  string               `json:"updated_at"`
	Votes                      []AnswerVote         `json:"votes"`
	VotesCount                 int                  `json:"votes_count"`
}

// ProfileQuestion is the flat question row served under /accounts/my-questions/.
type ProfileQuestion struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Category        string `json:"category"`
	CategoryDisplay string `json:"category_display"`
	Status          string `json:"status"`
	StatusDisplay   string `json:"status_display"`
	UserName        string `json:"user_name"`
	ViewsCount      int    `json:"views_count"`
	AnswersCount    int    `json:"answers_count"`
	RewardPoints    int    `json:"reward_points"`
	CreatedAt       string `json:"created_at"`
}

// ProfileAnswer is the answer row served under /accounts/my-answers/,
// carrying its question reference.
type ProfileAnswer struct {
	ID               int    `json:"id"`
	Content          string `json:"content"`
	Image            string `json:"image"`
	UserName         string `json:"user_name"`
	UserProfileImage string `json:"user_profile_image"`
	QuestionTitle    string `json:"question_title"`
	QuestionID       int    `json:"question_id"`
	IsHelpful        bool   `json:"is_helpful"`
	IsBestAnswer     bool   `json:"is_best_answer"`
	HelpfulVotes     int    `json:"helpful_votes"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// QAStats is the aggregate Q&A counters served by /stats/.
type QAStats struct {
	TotalQuestions  int `json:"total_questions"`
	OpenQuestions   int `json:"open_questions"`
	ClosedQuestions int `json:"closed_questions"`
	TotalAnswers    int `json:"total_answers"`
	BestAnswers     int `json:"best_answers"`
}

// QuestionDraft is the client-side input for creating a question.
// ImagePath, when set, switches the request to a multipart upload.
type QuestionDraft struct {
	Title        string
	Content      string
	Category     string
	RewardPoints int
	ImagePath    string
}

// AnswerDraft is the client-side input for creating an answer.
type AnswerDraft struct {
	QuestionID          int
	Content             string
	RecommendedProducts []int
	ImagePath           string
}
