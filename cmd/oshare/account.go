package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/nakamoto-negai/oshare-style-linkers/domain"
	"github.com/nakamoto-negai/oshare-style-linkers/internal/session"
)

func (a *app) login(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("login", stderr)
	username := fs.String("user", "", "Username")
	password := fs.String("password", "", "Password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("missing required flag: -user")
	}

	if *password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		entered, err := readPassword(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
		*password = entered
	}

	result := a.session.Login(ctx, *username, *password)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Message)
	}
	user := a.session.User()
	fmt.Fprintf(a.stdout, "Logged in as %s (%d points)\n", user.Username, user.Points)
	if result.Message != "" {
		fmt.Fprintln(a.stdout, result.Message)
	}
	return nil
}

func (a *app) register(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("register", stderr)
	username := fs.String("user", "", "Username")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (prompted when omitted)")
	firstName := fs.String("first", "", "First name")
	lastName := fs.String("last", "", "Last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return fmt.Errorf("missing required flags: -user, -email")
	}

	confirm := *password
	if *password == "" {
		fmt.Fprint(a.stdout, "Password: ")
		entered, err := readPassword(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
		fmt.Fprint(a.stdout, "Confirm password: ")
		confirmed, err := readPassword(a.stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(a.stdout)
		*password, confirm = entered, confirmed
	}

	result := a.session.Register(ctx, domain.RegisterData{
		Username:        *username,
		Email:           *email,
		Password:        *password,
		PasswordConfirm: confirm,
		FirstName:       *firstName,
		LastName:        *lastName,
	})
	if !result.Success {
		return fmt.Errorf("registration failed: %s", result.Message)
	}
	fmt.Fprintf(a.stdout, "Registered as %s\n", a.session.User().Username)
	if result.Message != "" {
		fmt.Fprintln(a.stdout, result.Message)
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.stdout, "Logged out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	if a.session.Initialize(ctx) != session.Authenticated {
		fmt.Fprintln(a.stdout, "Not logged in")
		return nil
	}
	user := a.session.User()
	fmt.Fprintf(a.stdout, "%s <%s>\n", user.Username, user.Email)
	if name := user.DisplayName(); name != user.Username {
		fmt.Fprintf(a.stdout, "Name:     %s\n", name)
	}
	fmt.Fprintf(a.stdout, "Points:   %d (lifetime %d)\n", user.Points, user.TotalEarnedPoints)
	fmt.Fprintf(a.stdout, "Activity: %d questions, %d answers (%d helpful)\n",
		user.QuestionsCount, user.AnswersCount, user.HelpfulAnswersCount)
	if user.IsPremium {
		fmt.Fprintln(a.stdout, "Premium:  yes")
	}
	return nil
}

func (a *app) status(ctx context.Context) error {
	if err := a.gw.Ping(ctx); err != nil {
		return fmt.Errorf("backend check failed: %w", err)
	}
	fmt.Fprintf(a.stdout, "Backend at %s is reachable\n", a.cfg.API.BaseURL)
	return nil
}

func (a *app) profile(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("profile", stderr)
	bio := fs.String("bio", "", "Set biography")
	firstName := fs.String("first", "", "Set first name")
	lastName := fs.String("last", "", "Set last name")
	email := fs.String("email", "", "Set email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update := domain.ProfileUpdate{}
	changed := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bio":
			update.Bio = bio
			changed = true
		case "first":
			update.FirstName = firstName
			changed = true
		case "last":
			update.LastName = lastName
			changed = true
		case "email":
			update.Email = email
			changed = true
		}
	})

	var profile *domain.Profile
	var err error
	if changed {
		profile, err = a.accounts.UpdateProfile(ctx, update)
	} else {
		profile, err = a.accounts.Profile(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s <%s>\n", profile.Username, profile.Email)
	if profile.Bio != "" {
		fmt.Fprintf(a.stdout, "Bio:    %s\n", profile.Bio)
	}
	fmt.Fprintf(a.stdout, "Points: %d\n", profile.Points)
	fmt.Fprintf(a.stdout, "Notifications: %v\n", profile.NotificationEnabled)
	return nil
}

func (a *app) points(ctx context.Context) error {
	entries, err := a.accounts.PointHistory(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.stdout, "No point history")
		return nil
	}
	for _, entry := range entries {
		fmt.Fprintf(a.stdout, "%+d\t%s\t(balance %d)\t%s\n",
			entry.Points, entry.Reason, entry.BalanceAfter, entry.CreatedAt)
	}
	return nil
}

func (a *app) myQuestions(ctx context.Context) error {
	questions, err := a.accounts.MyQuestions(ctx)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(a.stdout, "No questions yet")
		return nil
	}
	for _, q := range questions {
		fmt.Fprintf(a.stdout, "#%d\t[%s]\t%s\t%d answers\t%dpt\n",
			q.ID, q.StatusDisplay, q.Title, q.AnswersCount, q.RewardPoints)
	}
	return nil
}

func (a *app) myAnswers(ctx context.Context) error {
	answers, err := a.accounts.MyAnswers(ctx)
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		fmt.Fprintln(a.stdout, "No answers yet")
		return nil
	}
	for _, ans := range answers {
		marker := ""
		if ans.IsBestAnswer {
			marker = " [best]"
		}
		fmt.Fprintf(a.stdout, "#%d\ton %q%s\t%d helpful\n\t%s\n",
			ans.ID, ans.QuestionTitle, marker, ans.HelpfulVotes, excerpt(ans.Content, 80))
	}
	return nil
}

func (a *app) recommendations(ctx context.Context) error {
	recommendations, err := a.accounts.Recommendations(ctx)
	if err != nil {
		return err
	}
	if len(recommendations) == 0 {
		fmt.Fprintln(a.stdout, "No recommendations yet")
		return nil
	}
	for _, rec := range recommendations {
		liked := ""
		if rec.IsLiked {
			liked = " [liked]"
		}
		fmt.Fprintf(a.stdout, "#%d\t%s / %s\t%s yen\tscore %.1f%s\n",
			rec.Item, rec.ItemBrand, rec.ItemName, rec.ItemPrice, rec.Score, liked)
		if rec.Reason != "" {
			fmt.Fprintf(a.stdout, "\t%s\n", rec.Reason)
		}
	}
	return nil
}

func (a *app) preferences(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("preferences", stderr)
	budgetMin := fs.Int("budget-min", 0, "Set minimum budget")
	budgetMax := fs.Int("budget-max", 0, "Set maximum budget")
	styles := fs.String("styles", "", "Set style preferences, comma separated")
	colors := fs.String("colors", "", "Set color preferences, comma separated")
	if err := fs.Parse(args); err != nil {
		return err
	}

	update := domain.PreferenceUpdate{}
	changed := false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "budget-min":
			update.BudgetMin = budgetMin
			changed = true
		case "budget-max":
			update.BudgetMax = budgetMax
			changed = true
		case "styles":
			update.StylePreferences = splitList(*styles)
			changed = true
		case "colors":
			update.ColorPreferences = splitList(*colors)
			changed = true
		}
	})

	var preference *domain.Preference
	var err error
	if changed {
		preference, err = a.accounts.UpdatePreferences(ctx, update)
	} else {
		preference, err = a.accounts.Preferences(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Budget: %d - %d yen\n", preference.BudgetMin, preference.BudgetMax)
	if len(preference.PreferredBrandsNames) > 0 {
		fmt.Fprintf(a.stdout, "Brands: %s\n", strings.Join(preference.PreferredBrandsNames, ", "))
	}
	if len(preference.PreferredCategoriesNames) > 0 {
		fmt.Fprintf(a.stdout, "Categories: %s\n", strings.Join(preference.PreferredCategoriesNames, ", "))
	}
	if len(preference.StylePreferences) > 0 {
		fmt.Fprintf(a.stdout, "Styles: %s\n", strings.Join(preference.StylePreferences, ", "))
	}
	if len(preference.ColorPreferences) > 0 {
		fmt.Fprintf(a.stdout, "Colors: %s\n", strings.Join(preference.ColorPreferences, ", "))
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func excerpt(text string, limit int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
