package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/client"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published news items, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}

			items, err := c.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list failed: %w", err)
			}

			if useJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), items)
			}

			return writeItemTable(cmd.OutOrStdout(), items)
		},
	}
}

func writeItemTable(out io.Writer, items []*news.Item) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tDATE\tCATEGORY\tAUTHOR\tTITLE\n")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.PublishedDate.Format(news.DateLayout),
			truncate(item.Category, 15),
			truncate(item.Author, 15),
			truncate(item.Title, 50),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nTotal: %d\n", len(items))
	return nil
}

// NewGetCommand creates the get command
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a published news item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}

			item, err := c.Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get failed: %w", err)
			}

			return printItem(cmd, item)
		},
	}
}

type itemFlags struct {
	title       string
	description string
	category    string
	imageURL    string
	gradient    string
	date        string
	author      string
	body        string
	bodyFile    string
	draft       bool
	published   bool
}

func (f *itemFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "headline")
	cmd.Flags().StringVar(&f.description, "description", "", "short summary")
	cmd.Flags().StringVar(&f.category, "category", "", "category label")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "cover image URL")
	cmd.Flags().StringVar(&f.gradient, "gradient", "", "presentation gradient")
	cmd.Flags().StringVar(&f.date, "date", "", "published date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.author, "author", "", "byline")
	cmd.Flags().StringVar(&f.body, "body", "", "HTML body")
	cmd.Flags().StringVar(&f.bodyFile, "body-file", "", "read the HTML body from a file")
}

// optional returns a pointer to the flag value if the flag was given.
func optional(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func (f *itemFlags) bodyValue(cmd *cobra.Command) (*string, error) {
	if cmd.Flags().Changed("body-file") {
		if cmd.Flags().Changed("body") {
			return nil, errors.New("--body and --body-file are mutually exclusive")
		}
		data, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		body := string(data)
		return &body, nil
	}
	return optional(cmd, "body", f.body), nil
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	var flags itemFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a news item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := flags.bodyValue(cmd)
			if err != nil {
				return err
			}

			req := news.CreateItemRequest{
				Title:         flags.title,
				Description:   flags.description,
				Category:      flags.category,
				ImageURL:      optional(cmd, "image-url", flags.imageURL),
				Gradient:      optional(cmd, "gradient", flags.gradient),
				PublishedDate: optional(cmd, "date", flags.date),
				Author:        optional(cmd, "author", flags.author),
				Body:          body,
			}
			if flags.draft {
				published := false
				req.IsPublished = &published
			}

			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}

			item, err := c.Create(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create failed: %w", err)
			}

			return printItem(cmd, item)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.draft, "draft", false, "create unpublished")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

// NewUpdateCommand creates the update command
func NewUpdateCommand() *cobra.Command {
	var flags itemFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a news item",
		Long:  `Only the flags given are sent; other fields keep their stored values.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			body, err := flags.bodyValue(cmd)
			if err != nil {
				return err
			}

			req := news.UpdateItemRequest{
				ID:            id,
				Title:         optional(cmd, "title", flags.title),
				Description:   optional(cmd, "description", flags.description),
				Category:      optional(cmd, "category", flags.category),
				ImageURL:      optional(cmd, "image-url", flags.imageURL),
				Gradient:      optional(cmd, "gradient", flags.gradient),
				PublishedDate: optional(cmd, "date", flags.date),
				Author:        optional(cmd, "author", flags.author),
				Body:          body,
			}
			if cmd.Flags().Changed("published") {
				published := flags.published
				req.IsPublished = &published
			}
			if req.Empty() {
				return errors.New("nothing to update: pass at least one field flag")
			}

			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}

			item, err := c.Update(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}

			return printItem(cmd, item)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.published, "published", true, "set visibility (--published=false hides the item)")

	return cmd
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a news item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c, err := NewClientFromFlags(cmd)
			if err != nil {
				return err
			}

			if err := c.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}

			if useJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"deleted": id.String()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid news ID %q: %w", raw, err)
	}
	return id, nil
}

func useJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printItem(cmd *cobra.Command, item *news.Item) error {
	out := cmd.OutOrStdout()
	if useJSON(cmd) {
		return writeJSON(out, item)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", item.ID)
	fmt.Fprintf(w, "Title:\t%s\n", item.Title)
	fmt.Fprintf(w, "Description:\t%s\n", item.Description)
	fmt.Fprintf(w, "Category:\t%s\n", item.Category)
	fmt.Fprintf(w, "Author:\t%s\n", item.Author)
	fmt.Fprintf(w, "Published:\t%s (%t)\n", item.PublishedDate.Format(news.DateLayout), item.IsPublished)
	if item.ImageURL != "" {
		fmt.Fprintf(w, "Image:\t%s\n", item.ImageURL)
	}
	fmt.Fprintf(w, "Updated:\t%s\n", item.UpdatedAt.Format("2006-01-02 15:04:05"))
	if err := w.Flush(); err != nil {
		return err
	}

	if item.Body != "" {
		fmt.Fprintf(out, "\n%s\n", item.Body)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// exitCode maps client failures to a process status for scripts.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, client.ErrAuthRequired), client.IsStatus(err, 401):
		return 3
	case client.IsStatus(err, 404):
		return 4
	default:
		return 1
	}
}
