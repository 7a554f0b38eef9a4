package domain

// User represents the authenticated account as returned by the accounts API.
//
// Timestamps stay as the wire strings: the backend is the source of truth and
// the client never computes with them.
type User struct {
	ID                  int    `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Bio                 string `json:"bio"`
	BirthDate           string `json:"birth_date"`
	ProfileImage        string `json:"profile_image"`
	Points              int    `json:"points"`
	TotalEarnedPoints   int    `json:"total_earned_points"`
	IsPremium           bool   `json:"is_premium"`
	QuestionsCount      int    `json:"questions_count"`
	AnswersCount        int    `json:"answers_count"`
	HelpfulAnswersCount int    `json:"helpful_answers_count"`
	DateJoined          string `json:"date_joined"`
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" || u.LastName != "" {
		if u.FirstName == "" {
			return u.LastName
		}
		if u.LastName == "" {
			return u.FirstName
		}
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// Profile is the extended self view served by /accounts/profile/.
type Profile struct {
	User
	NotificationEnabled bool `json:"notification_enabled"`
}

// ProfileUpdate carries the writable profile fields for a PATCH.
type ProfileUpdate struct {
	Email               *string `json:"email,omitempty"`
	FirstName           *string `json:"first_name,omitempty"`
	LastName            *string `json:"last_name,omitempty"`
	Bio                 *string `json:"bio,omitempty"`
	BirthDate           *string `json:"birth_date,omitempty"`
	NotificationEnabled *bool   `json:"notification_enabled,omitempty"`
}

// RegisterData is the payload for account registration.
type RegisterData struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Recommendation is one personalized item suggestion served by
// /accounts/recommendations/, ranked by score.
type Recommendation struct {
	ID        int     `json:"id"`
	Item      int     `json:"item"`
	ItemName  string  `json:"item_name"`
	ItemBrand string  `json:"item_brand"`
	ItemPrice string  `json:"item_price"`
	ItemImage string  `json:"item_image"`
	Reason    string  `json:"reason"`
	Score     float64 `json:"score"`
	IsViewed  bool    `json:"is_viewed"`
	IsLiked   bool    `json:"is_liked"`
	CreatedAt string  `json:"created_at"`
}

// Preference is the shopping taste profile at /accounts/preferences/. The
// backend creates an empty one on first read.
type Preference struct {
	PreferredBrands          []int             `json:"preferred_brands"`
	PreferredBrandsNames     []string          `json:"preferred_brands_names"`
	PreferredCategories      []int             `json:"preferred_categories"`
	PreferredCategoriesNames []string          `json:"preferred_categories_names"`
	ClothingSizes            map[string]string `json:"clothing_sizes"`
	ShoeSizes                map[string]string `json:"shoe_sizes"`
	BudgetMin                int               `json:"budget_min"`
	BudgetMax                int               `json:"budget_max"`
	StylePreferences         []string          `json:"style_preferences"`
	ColorPreferences         []string          `json:"color_preferences"`
}

// PreferenceUpdate carries the writable preference fields for a PATCH.
type PreferenceUpdate struct {
	PreferredBrands     []int    `json:"preferred_brands,omitempty"`
	PreferredCategories []int    `json:"preferred_categories,omitempty"`
	BudgetMin           *int     `json:"budget_min,omitempty"`
	BudgetMax           *int     `json:"budget_max,omitempty"`
	StylePreferences    []string `json:"style_preferences,omitempty"`
	ColorPreferences    []string `json:"color_preferences,omitempty"`
}

// PointEntry is one row of the point ledger at /accounts/point-history/.
type PointEntry struct {
	ID           int    `json:"id"`
	Points       int    `json:"points"`
	Reason       string `json:"reason"`
	BalanceAfter int    `json:"balance_after"`
	CreatedAt    string `json:"created_at"`
}
