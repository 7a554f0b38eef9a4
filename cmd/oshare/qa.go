package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
)

func (a *app) questions(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("questions", stderr)
	category := fs.String("category", "", "Filter by category")
	status := fs.String("status", "", "Filter by status (open/closed)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := url.Values{}
	if *category != "" {
		params.Set("category", *category)
	}
	if *status != "" {
		params.Set("status", *status)
	}

	questions, err := a.question.List(ctx, params)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.stdout, "No questions found")
		return nil
	}
	for _, q := range questions {
		fmt.Fprintf(a.stdout, "#%d\t[%s/%s]\t%s\tby %s\t%d answers\t%dpt\n",
			q.ID, q.CategoryDisplay, q.StatusDisplay, q.Title, q.User.Username, q.AnswersCount, q.RewardPoints)
	}
	return nil
}

func (a *app) questionDetail(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("question", stderr)
	id := fs.Int("id", 0, "Question ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id <= 0 {
		return fmt.Errorf("missing required flag: -id")
	}

	q, err := a.question.Get(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "#%d %s\n", q.ID, q.Title)
	fmt.Fprintf(a.stdout, "%s | %s | by %s | %d views | %dpt reward\n",
		q.CategoryDisplay, q.StatusDisplay, q.User.Username, q.ViewsCount, q.RewardPoints)
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, q.Content)
	fmt.Fprintf(a.stdout, "\n%d answers:\n", len(q.Answers))
	for _, ans := range q.Answers {
		printAnswer(a.stdout, ans)
	}
	return nil
}

func printAnswer(w io.Writer, ans domain.Answer) {
	marker := ""
	if ans.IsBestAnswer {
		marker = " [best answer]"
	}
	fmt.Fprintf(w, "\n#%d by %s%s (%d helpful)\n%s\n", ans.ID, ans.User.Username, marker, ans.HelpfulVotes, ans.Content)
	for _, product := range ans.RecommendedProductsDetails {
		fmt.Fprintf(w, "  -> recommends %s (%s) %.0f yen\n", product.Name, product.BrandName, product.Price)
	}
}

func (a *app) ask(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("ask", stderr)
	title := fs.String("title", "", "Question title")
	content := fs.String("content", "", "Question body")
	category := fs.String("category", "styling", "Category")
	points := fs.Int("points", 10, "Reward points (10-1000)")
	image := fs.String("image", "", "Path to an image to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *title == "" || *content == "" {
		return fmt.Errorf("missing required flags: -title, -content")
	}

	created, err := a.question.Create(ctx, domain.QuestionDraft{
		Title:        *title,
		Content:      *content,
		Category:     *category,
		RewardPoints: *points,
		ImagePath:    *image,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Question #%d created\n", created.ID)
	return nil
}

func (a *app) answers(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("answers", stderr)
	questionID := fs.Int("question", 0, "Question ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *questionID <= 0 {
		return fmt.Errorf("missing required flag: -question")
	}

	answers, err := a.question.Answers(ctx, *questionID)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		fmt.Fprintln(a.stdout, "No answers yet")
		return nil
	}
	for _, ans := range answers {
		printAnswer(a.stdout, ans)
	}
	return nil
}

func (a *app) answer(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("answer", stderr)
	questionID := fs.Int("question", 0, "Question ID")
	content := fs.String("content", "", "Answer body (10+ characters)")
	image := fs.String("image", "", "Path to an image to attach")
	products := fs.String("products", "", "Recommended item IDs, comma separated (max 3)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *questionID <= 0 || *content == "" {
		return fmt.Errorf("missing required flags: -question, -content")
	}

	recommended, err := parseIDList(*products)
	if err != nil {
		return err
	}

	created, err := a.question.CreateAnswer(ctx, domain.AnswerDraft{
		QuestionID:          *questionID,
		Content:             *content,
		RecommendedProducts: recommended,
		ImagePath:           *image,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Answer #%d posted to question #%d\n", created.ID, created.Question)
	return nil
}

func (a *app) vote(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("vote", stderr)
	answerID := fs.Int("answer", 0, "Answer ID")
	helpful := fs.Bool("helpful", true, "Vote helpful (false for not helpful)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *answerID <= 0 {
		return fmt.Errorf("missing required flag: -answer")
	}

	result, err := a.accounts.Vote(ctx, *answerID, *helpful)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s (now %d helpful votes)\n", result.Message, result.HelpfulVotes)
	return nil
}

func (a *app) best(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("best", stderr)
	answerID := fs.Int("answer", 0, "Answer ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *answerID <= 0 {
		return fmt.Errorf("missing required flag: -answer")
	}

	result, err := a.accounts.MarkBest(ctx, *answerID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, result.Message)
	return nil
}

func (a *app) qaStats(ctx context.Context) error {
	stats, err := a.question.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Questions: %d (%d open, %d closed)\n",
		stats.TotalQuestions, stats.OpenQuestions, stats.ClosedQuestions)
	fmt.Fprintf(a.stdout, "Answers:   %d (%d best)\n", stats.TotalAnswers, stats.BestAnswers)
	return nil
}

func parseIDList(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
