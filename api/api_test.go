package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/gateway"
)

func newTestGateway(t *testing.T, handler http.Handler) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw, err := gateway.New(srv.URL+"/api", nil, gateway.Options{})
	require.NoError(t, err)
	return gw
}

func TestMeUnwrapsEnvelope(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/me/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"id":7,"username":"hanako","points":50}}`))
	}))

	user, err := NewAccounts(gw).Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "hanako", user.Username)
}

func TestMeMissingUserIsUnexpected(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))

	_, err := NewAccounts(gw).Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnexpectedResponse)
}

func TestVotePathAndPayload(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"voted","helpful_votes":4}`))
	}))

	result, err := NewAccounts(gw).Vote(context.Background(), 42, false)
	require.NoError(t, err)

	assert.Equal(t, "/api/accounts/answers/42/vote/", gotPath)
	assert.Equal(t, map[string]any{"is_helpful": false}, gotBody)
	assert.True(t, result.Success)
	assert.Equal(t, 4, result.HelpfulVotes)
}

func TestQuestionListEncodesFilters(t *testing.T) {
	var gotQuery url.Values
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"coords for autumn?"}]`))
	}))

	params := url.Values{}
	params.Set("category", "styling")
	params.Set("status", "open")
	questions, err := NewQuestions(gw).List(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "styling", gotQuery.Get("category"))
	assert.Equal(t, "open", gotQuery.Get("status"))
	require.Len(t, questions, 1)
	assert.Equal(t, "coords for autumn?", questions[0].Title)
}

func TestCreateQuestionJSONWithoutImage(t *testing.T) {
	var gotContentType string
	var gotBody map[string]any
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"title":"coat advice"}`))
	}))

	created, err := NewQuestions(gw).Create(context.Background(), domain.QuestionDraft{
		Title:        "coat advice",
		Content:      "which coat works with wide pants?",
		Category:     "styling",
		RewardPoints: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, float64(30), gotBody["reward_points"])
	assert.Equal(t, 9, created.ID)
}

func TestCreateQuestionMultipartWithImage(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "outfit.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpegdata"), 0o644))

	var gotForm map[string]string
	var gotFile []byte
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotForm = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			gotForm[name] = values[0]
		}
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "outfit.jpg", header.Filename)
		gotFile, err = io.ReadAll(file)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":10}`))
	}))

	created, err := NewQuestions(gw).Create(context.Background(), domain.QuestionDraft{
		Title:        "coat advice",
		Content:      "which coat works with wide pants?",
		Category:     "styling",
		RewardPoints: 30,
		ImagePath:    imagePath,
	})
	require.NoError(t, err)

	assert.Equal(t, "coat advice", gotForm["title"])
	assert.Equal(t, "30", gotForm["reward_points"])
	assert.Equal(t, []byte("jpegdata"), gotFile)
	assert.Equal(t, 10, created.ID)
}

func TestCreateAnswerEncodesRecommendedProducts(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "look.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("pngdata"), 0o644))

	var gotProducts string
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotProducts = r.MultipartForm.Value["recommended_products"][0]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3,"question":5}`))
	}))

	created, err := NewQuestions(gw).CreateAnswer(context.Background(), domain.AnswerDraft{
		QuestionID:          5,
		Content:             "try a chester coat with those",
		RecommendedProducts: []int{11, 12},
		ImagePath:           imagePath,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `[11,12]`, gotProducts)
	assert.Equal(t, 5, created.Question)
}

func TestRecommendationsDecimalPriceStaysString(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/recommendations/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"item":8,"item_name":"chester coat","item_brand":"UNITED TOKYO","item_price":"12800.00","score":0.9,"is_liked":true}]`))
	}))

	recommendations, err := NewAccounts(gw).Recommendations(context.Background())
	require.NoError(t, err)
	require.Len(t, recommendations, 1)
	assert.Equal(t, "12800.00", recommendations[0].ItemPrice)
	assert.InDelta(t, 0.9, recommendations[0].Score, 0.001)
	assert.True(t, recommendations[0].IsLiked)
}

func TestUpdatePreferencesPatchesOnlySetFields(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/accounts/preferences/", r.URL.Path)
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"budget_min":5000,"budget_max":20000,"style_preferences":["casual"]}`))
	}))

	budgetMax := 20000
	preference, err := NewAccounts(gw).UpdatePreferences(context.Background(), domain.PreferenceUpdate{
		BudgetMax:        &budgetMax,
		StylePreferences: []string{"casual"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.NotContains(t, gotBody, "budget_min")
	assert.Equal(t, float64(20000), gotBody["budget_max"])
	assert.Equal(t, 5000, preference.BudgetMin)
	assert.Equal(t, []string{"casual"}, preference.StylePreferences)
}

func TestQAStats(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/stats/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_questions":12,"open_questions":7,"closed_questions":5,"total_answers":30,"best_answers":5}`))
	}))

	stats, err := NewQuestions(gw).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalQuestions)
	assert.Equal(t, 7, stats.OpenQuestions)
	assert.Equal(t, 5, stats.BestAnswers)
}

func TestStylesUnwrapsEnvelope(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/styles/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"styles":[{"id":1,"name":"casual"},{"id":2,"name":"mode"}]}`))
	}))

	styles, err := NewCatalog(gw).Styles(context.Background())
	require.NoError(t, err)
	require.Len(t, styles, 2)
	assert.Equal(t, "mode", styles[1].Name)
}

func TestValidateCouponDecimalsAsNumbers(t *testing.T) {
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"valid":true,"coupon":{"id":1,"code":"FALL10","discount_value":"10.00"},"discount_amount":1280.0,"final_amount":11520.0}`))
	}))

	validation, err := NewCommerce(gw).ValidateCoupon(context.Background(), "FALL10", 12800)
	require.NoError(t, err)
	assert.True(t, validation.Valid)
	assert.Equal(t, "10.00", validation.Coupon.DiscountValue)
	assert.InDelta(t, 1280.0, validation.DiscountAmount, 0.001)
	assert.InDelta(t, 11520.0, validation.FinalAmount, 0.001)
}

func TestCreateOrderOmitsEmptyCoupon(t *testing.T) {
	var gotBody map[string]any
	gw := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1,"order_number":"ORD-1","status":"pending","total_amount":"12800.00"}`))
	}))

	order, err := NewCommerce(gw).CreateOrder(context.Background(), domain.OrderDraft{
		PaymentMethod:   2,
		ShippingAddress: "Tokyo",
		Items:           []domain.OrderDraftItem{{ItemID: 3, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.NotContains(t, gotBody, "coupon_code")
	assert.Equal(t, "ORD-1", order.OrderNumber)
	assert.Equal(t, "12800.00", order.TotalAmount)
}

func TestEncodeMultipartWithoutFile(t *testing.T) {
	body, contentType, err := encodeMultipart(map[string]string{"a": "1", "b": "2"}, "image", "")
	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data; boundary=")
	assert.Contains(t, string(body), `name="a"`)
	assert.Contains(t, string(body), `name="b"`)
}
