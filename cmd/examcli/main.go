// Command examcli is the terminal client for the QuizDeck exam
// platform: sign in, browse exams, sit a timed attempt with background
// autosave, and review past results.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/quizdeck/quizdeck-client/internal/attempt"
	"github.com/quizdeck/quizdeck-client/internal/config"
	"github.com/quizdeck/quizdeck-client/internal/credential"
	"github.com/quizdeck/quizdeck-client/internal/gateway"
	"github.com/quizdeck/quizdeck-client/internal/logger"
	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/validator"
)

const usage = `QuizDeck terminal client

Usage: examcli <command> [args]

Commands:
  login <email>          sign in (password prompted)
  register               create an account
  logout                 drop the cached session
  whoami                 show the signed-in account
  exams                  list active exams
  take <exam-id>         start and sit an exam
  history [page]         list your past submissions
  result <submission-id> show a scored submission
  import <file> [prompt] generate questions from a document (admin)
`

type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	creds  credential.Store
	client *gateway.Client
	in     *bufio.Reader
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	creds := credential.NewFileStore(cfg.TokenPath)
	a := &app{
		cfg:    cfg,
		log:    log,
		creds:  creds,
		client: gateway.New(cfg, creds, log),
		in:     bufio.NewReader(os.Stdin),
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "login":
		err = a.login(ctx, args)
	case "register":
		err = a.register(ctx)
	case "logout":
		err = a.logout()
	case "whoami":
		err = a.whoami(ctx)
	case "exams":
		err = a.exams(ctx)
	case "take":
		err = a.take(ctx, args)
	case "history":
		err = a.history(ctx, args)
	case "result":
		err = a.result(ctx, args)
	case "import":
		err = a.importDoc(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", renderError(err))
		os.Exit(1)
	}
}

// renderError turns gateway errors into something a person can act on.
func renderError(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		for field, detail := range apiErr.Fields {
			msg += fmt.Sprintf("\n  %s: %s", field, detail)
		}
		return msg
	}
	if errors.Is(err, gateway.ErrUnauthorized) || errors.Is(err, credential.ErrNoToken) {
		return "not signed in (run: examcli login <email>)"
	}
	return err.Error()
}

// ─── Auth commands ─────────────────────────────────────────────────────

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: examcli login <email>")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	req := model.LoginRequest{Email: args[0], Password: password}
	if fields := validator.Struct(&req); fields != nil {
		return fieldErrors(fields)
	}

	auth, err := a.client.Login(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", auth.User.Username, auth.User.Role)
	return nil
}

func (a *app) register(ctx context.Context) error {
	username, err := a.promptLine("Username: ")
	if err != nil {
		return err
	}
	email, err := a.promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	req := model.RegisterRequest{Username: username, Email: email, Password: password}
	if fields := validator.Struct(&req); fields != nil {
		return fieldErrors(fields)
	}

	auth, err := a.client.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Account created, signed in as %s\n", auth.User.Username)
	return nil
}

func (a *app) logout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	token, err := a.creds.Token()
	if err != nil {
		return err
	}

	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\nRole: %s\n", user.Username, user.Email, user.Role)

	if claims, err := credential.InspectToken(token); err == nil && claims.ExpiresAt != nil {
		fmt.Printf("Session expires: %s\n", claims.ExpiresAt.Format(time.RFC1123))
	}
	return nil
}

// ─── Exam commands ─────────────────────────────────────────────────────

func (a *app) exams(ctx context.Context) error {
	exams, err := a.client.ListActiveExams(ctx)
	if err != nil {
		return err
	}
	if len(exams) == 0 {
		fmt.Println("No active exams")
		return nil
	}

	for _, e := range exams {
		fmt.Printf("%s\n  %s | %d min | %d questions | %.0f points\n",
			e.ID, e.Title, e.Duration, e.QuestionCount, e.TotalScore)
		if e.Description != "" {
			fmt.Printf("  %s\n", e.Description)
		}
	}
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	page := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return errors.New("usage: examcli history [page]")
		}
		page = n
	}

	list, err := a.client.MyHistory(ctx, page, 20)
	if err != nil {
		return err
	}
	if list.TotalCount == 0 {
		fmt.Println("No submissions yet")
		return nil
	}

	for _, item := range list.Items {
		fmt.Printf("%s  %-30s  %5.1f/%.1f (%.0f%%)  %s\n",
			item.SubmissionID, item.ExamTitle,
			item.TotalScore, item.MaxScore, item.Percentage,
			item.SubmittedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Printf("Page %d, %d total\n", list.Page, list.TotalCount)
	return nil
}

func (a *app) result(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: examcli result <submission-id>")
	}

	res, err := a.client.GetResult(ctx, args[0])
	if err != nil {
		return err
	}
	renderResult(res)
	return nil
}

func (a *app) importDoc(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: examcli import <file> [prompt]")
	}

	out, err := a.client.GenerateQuestions(ctx, strings.Join(args[1:], " "), args[0])
	if err != nil {
		return err
	}
	fmt.Println(out.Message)
	for _, q := range out.Questions {
		fmt.Printf("  %s  %s\n", q.ID, q.Content)
	}
	return nil
}

// ─── Attempt loop ──────────────────────────────────────────────────────

func (a *app) take(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: examcli take <exam-id>")
	}

	att, err := a.client.StartExam(ctx, args[0])
	if err != nil {
		return err
	}

	ctrl, err := attempt.New(att, a.client, a.log, attempt.Options{
		OnTick: timeWarnings(),
	})
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctrl.Start(runCtx)
	defer ctrl.Close()

	fmt.Printf("\n=== %s ===\n%d questions, %d minutes. Answers autosave in the background.\n",
		att.Title, len(att.Questions), att.Duration)
	fmt.Println(`Type an option key to select it, "n"/"p" to move, "g <n>" to jump,
"m" to mark for review, "s" to submit, "?" for help.`)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
		close(lines)
	}()

	var confirmPending bool
	for {
		a.renderQuestion(ctrl)

		select {
		case <-ctrl.Done():
			fmt.Println("\nTime is up.")
			return a.finish(ctx, ctrl)
		case line, ok := <-lines:
			if !ok {
				return errors.New("input closed, attempt abandoned (answers were autosaved)")
			}
			done, err := a.handleInput(ctx, ctrl, line, &confirmPending)
			if err != nil {
				return err
			}
			if done {
				return a.finish(ctx, ctrl)
			}
		}
	}
}

// handleInput applies one command line to the attempt. Returns done
// when the attempt was submitted.
func (a *app) handleInput(ctx context.Context, ctrl *attempt.Controller, line string, confirmPending *bool) (bool, error) {
	store := ctrl.Store()
	q, _ := store.Current()

	if line != "s" {
		*confirmPending = false
	}

	switch {
	case line == "":
	case line == "n":
		store.Next()
	case line == "p":
		store.Prev()
	case strings.HasPrefix(line, "g "):
		n, err := strconv.Atoi(strings.TrimSpace(line[2:]))
		if err != nil {
			fmt.Println("Usage: g <question number>")
			break
		}
		store.Goto(n - 1)
	case line == "m":
		store.ToggleReview(q.ID)
	case line == "s":
		if unanswered := store.Len() - store.AnsweredCount(); unanswered > 0 && !*confirmPending {
			fmt.Printf("%d question(s) unanswered. Type \"s\" again to submit anyway.\n", unanswered)
			*confirmPending = true
			break
		}
		if _, err := ctrl.Submit(ctx); err != nil {
			if errors.Is(err, attempt.ErrFinished) || errors.Is(err, attempt.ErrSubmitInFlight) {
				return true, nil
			}
			fmt.Println("Submit failed:", renderError(err), "(answers are safe, try again)")
			break
		}
		return true, nil
	case line == "?":
		fmt.Println(`Commands: option key = select/toggle, n = next, p = previous,
g <n> = jump, m = mark for review, s = submit`)
	default:
		key := strings.ToUpper(line)
		if q.Option(key) == nil {
			fmt.Printf("No option %q on this question\n", line)
			break
		}
		store.Select(q.ID, key)
	}
	return false, nil
}

// finish waits for the terminal submission to settle and renders the
// score, retrying once if the expiry auto-submit failed.
func (a *app) finish(ctx context.Context, ctrl *attempt.Controller) error {
	select {
	case <-ctrl.Done():
	case <-time.After(15 * time.Second):
	}

	res := ctrl.Result()
	if res == nil {
		if err := ctrl.LastError(); err != nil {
			fmt.Println("Submission failed:", renderError(err), "- retrying...")
		}
		var err error
		res, err = ctrl.Submit(ctx)
		if err != nil {
			return fmt.Errorf("submit: %w", err)
		}
	}

	renderResult(res)
	return nil
}

func (a *app) renderQuestion(ctrl *attempt.Controller) {
	store := ctrl.Store()
	q, i := store.Current()
	selected := store.Selected(q.ID)

	fmt.Printf("\n[%s] Question %d/%d (answered %d)",
		formatClock(ctrl.Remaining()), i+1, store.Len(), store.AnsweredCount())
	if store.Marked(q.ID) {
		fmt.Print("  *marked for review*")
	}
	fmt.Printf("\n%s\n", q.Content)
	if q.Type == model.QuestionTypeMultiple {
		fmt.Println("(select all that apply)")
	}

	for _, opt := range q.Options {
		mark := " "
		for _, sel := range selected {
			if sel == opt.Key {
				mark = "x"
			}
		}
		fmt.Printf("  [%s] %s) %s\n", mark, opt.Key, opt.Content)
	}
	fmt.Print("> ")
}

// timeWarnings announces the countdown at coarse checkpoints so the
// prompt is not clobbered every second.
func timeWarnings() func(int) {
	return func(remaining int) {
		switch {
		case remaining > 0 && remaining%300 == 0,
			remaining == 60, remaining == 30, remaining == 10:
			fmt.Printf("\n-- %s remaining --\n> ", formatClock(remaining))
		}
	}
}

func renderResult(res *model.ExamResult) {
	pct := 0.0
	if res.MaxScore > 0 {
		pct = res.TotalScore / res.MaxScore * 100
	}
	fmt.Printf("\n=== %s ===\nScore: %.1f / %.1f (%.0f%%)\nTime taken: %s\nSubmission: %s\n",
		res.ExamTitle, res.TotalScore, res.MaxScore, pct,
		formatClock(res.TimeTaken), res.SubmissionID)

	for i, q := range res.Questions {
		verdict := "✗"
		if q.IsCorrect {
			verdict = "✓"
		}
		fmt.Printf("\n%s %d. %s\n   yours: %s | correct: %s\n",
			verdict, i+1, q.Content,
			strings.Join(q.UserAnswers, ","), strings.Join(q.CorrectAnswers, ","))
		if q.Explanation != "" {
			fmt.Printf("   %s\n", q.Explanation)
		}
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ─── Prompt helpers ────────────────────────────────────────────────────

func (a *app) promptLine(label string) (string, error) {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

func fieldErrors(fields map[string]string) error {
	parts := make([]string, 0, len(fields))
	for field, msg := range fields {
		parts = append(parts, field+": "+msg)
	}
	return errors.New(strings.Join(parts, "; "))
}
