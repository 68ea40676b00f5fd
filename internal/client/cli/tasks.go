package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/taskkeeper/internal/api"
)

const timeLayout = "2006-01-02 15:04"

// argOrPrompt returns args[i] when present, otherwise asks for it.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) printTask(t *api.Task) {
	fmt.Fprintf(a.out, "ID:          %s\n", t.ID)
	fmt.Fprintf(a.out, "Title:       %s\n", t.Title)
	if t.Description != nil {
		fmt.Fprintf(a.out, "Description: %s\n", *t.Description)
	}
	fmt.Fprintf(a.out, "Status:      %s\n", t.Status)
	fmt.Fprintf(a.out, "Created:     %s\n", t.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(a.out, "Updated:     %s\n", t.UpdatedAt.Local().Format(timeLayout))
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}

	desc, err := getMultiline(a.reader, "Enter description (optional)", a.out)
	if err != nil {
		return err
	}

	req := &api.CreateTaskRequest{Title: title}
	if desc != "" {
		req.Description = &desc
	}

	t, err := a.client.CreateTask(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created task %s\n", t.ID)
	return nil
}

func (a *App) List(ctx context.Context) error {
	list, err := a.client.ListTasks(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tTITLE")
	for _, t := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Status, t.Title)
	}
	return tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter task id")
	if err != nil {
		return err
	}

	t, err := a.client.GetTask(ctx, id)
	if err != nil {
		return err
	}

	a.printTask(t)
	return nil
}

// Status moves a task to another status: created, in_progress or completed.
func (a *App) Status(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter task id")
	if err != nil {
		return err
	}
	st, err := a.argOrPrompt(args, 1, "Enter new status (created, in_progress, completed)")
	if err != nil {
		return err
	}

	t, err := a.client.UpdateTask(ctx, &api.UpdateTaskRequest{ID: id, Status: &st})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Task %s is now %s\n", t.ID, t.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrPrompt(args, 0, "Enter task id to delete")
	if err != nil {
		return err
	}

	if err := a.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return nil
}
