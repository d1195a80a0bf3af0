package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/examkeeper/internal/client/client"
	"github.com/dmitrijs2005/examkeeper/internal/client/i18n"
	"github.com/dmitrijs2005/examkeeper/internal/client/models"
)

// historyShown is how many entries the history command prints.
const historyShown = 5

func (a *App) Pick(ctx context.Context, ref string) error {
	p, err := a.uploads.Pick(ctx, ref)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}

	fmt.Fprintf(a.out, "%s: %s\n", a.msg.T("file_label"), p.Name)
	fmt.Fprintf(a.out, "%s: %s\n", a.msg.T("size_label"), FormatBytes(p.Size))
	fmt.Fprintf(a.out, "send = %s, change = %s\n", a.msg.T("send_now"), a.msg.T("change_file"))
	return nil
}

func (a *App) Send(ctx context.Context) error {
	if a.uploads.Picked() != nil {
		fmt.Fprintln(a.out, a.msg.T("sending"))
	}
	out, err := a.uploads.Submit(ctx)
	if err != nil {
		return err
	}
	if out.Receipt != nil {
		fmt.Fprintf(a.out, "  %s (%s)\n", out.Receipt.Title, out.Receipt.ID)
	}
	return nil
}

func (a *App) Change(ctx context.Context) error {
	a.uploads.Discard()
	fmt.Fprintln(a.out, a.msg.T("select_pdf")+": pick <path>")
	return nil
}

func (a *App) History(ctx context.Context) error {
	entries := a.uploads.History()

	fmt.Fprintln(a.out, a.msg.T("recent_uploads"))
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "  "+a.msg.T("none_yet"))
		return nil
	}

	if len(entries) > historyShown {
		entries = entries[:historyShown]
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, a.formatEntry(e))
	}
	return nil
}

func (a *App) formatEntry(e models.UploadEntry) string {
	glyph, status := "✓", a.msg.T("status_sent")
	if e.Status == models.StatusFailed {
		glyph, status = "!", a.msg.T("status_failed")
	}

	line := fmt.Sprintf("  %s %s • %s • %s [%s] %s",
		glyph, e.Name, FormatBytes(e.Size), FormatDate(e.UploadedAt, a.msg.Locale()), status, e.ID)
	if e.Retryable() {
		line += fmt.Sprintf("  (%s: retry %s)", a.msg.T("retry"), e.ID)
	}
	return line
}

func (a *App) Retry(ctx context.Context, id string) error {
	fmt.Fprintln(a.out, a.msg.T("sending"))
	_, err := a.uploads.Retry(ctx, id)
	return err
}

func (a *App) Clear(ctx context.Context) error {
	return a.uploads.Clear(ctx)
}

func (a *App) Exams(ctx context.Context) error {
	exams, err := a.client.ListExams(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "! %v\n", err)
		return err
	}

	fmt.Fprintln(a.out, a.msg.T("exams_title"))
	if len(exams) == 0 {
		fmt.Fprintln(a.out, "  "+a.msg.T("no_exams"))
		return nil
	}
	for _, e := range exams {
		size := e.Size
		fmt.Fprintf(a.out, "  %s • %s • %s • %s\n", e.ID, e.Title, FormatBytes(&size), FormatDate(e.CollectedAt, a.msg.Locale()))
	}
	return nil
}

// Exam prints one exam record as the backend stores it.
func (a *App) Exam(ctx context.Context, id string) error {
	e, err := a.client.GetExam(ctx, id)
	if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintf(a.out, "! %s\n", a.msg.T("exam_not_found", i18n.Vars{"id": id}))
		return err
	}
	if err != nil {
		fmt.Fprintf(a.out, "! %v\n", err)
		return err
	}

	size := e.Size
	fmt.Fprintf(a.out, "%s (%s)\n", e.Title, e.ID)
	fmt.Fprintf(a.out, "  %s: %s\n", a.msg.T("file_label"), e.FileName)
	fmt.Fprintf(a.out, "  %s: %s\n", a.msg.T("size_label"), FormatBytes(&size))
	fmt.Fprintf(a.out, "  %s: %s\n", a.msg.T("date_label"), FormatDate(e.CollectedAt, a.msg.Locale()))
	if e.Lab != "" {
		fmt.Fprintf(a.out, "  %s: %s\n", a.msg.T("lab_label"), e.Lab)
	}
	if e.Digest != "" {
		fmt.Fprintf(a.out, "  blake2b: %s\n", e.Digest)
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "mode: %s\n", a.getMode())
	fmt.Fprintf(a.out, "locale: %s\n", a.msg.Locale())
	fmt.Fprintf(a.out, "max upload: %d MB\n", a.uploads.Limits().MaxMegabytes())
	fmt.Fprintf(a.out, "history: %d\n", len(a.uploads.History()))
	if p := a.uploads.Picked(); p != nil {
		fmt.Fprintf(a.out, "%s: %s (%s)\n", a.msg.T("file_label"), p.Name, FormatBytes(p.Size))
	}
	return nil
}
