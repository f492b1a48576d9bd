package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mattsolo1/notekeep/pkg/models"
	"github.com/mattsolo1/notekeep/pkg/service"
)

// rootLabel is how the implicit root level shows up in breadcrumbs
const rootLabel = "Root"

func formatWhen(ms int64) string {
	return time.UnixMilli(ms).Format("2006-01-02 15:04")
}

func printItemsTable(items []models.Item) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tUPDATED")
	for _, it := range items {
		title := it.Title
		if it.Pinned {
			title = "* " + title
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", it.ID, it.Type, title, formatWhen(it.UpdatedAt))
	}
	w.Flush()
}

func outputJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func breadcrumbString(sess *service.Session) (string, error) {
	chain, err := sess.Breadcrumb()
	if err != nil {
		return "", err
	}
	parts := []string{rootLabel}
	for _, it := range chain {
		parts = append(parts, it.Title)
	}
	return strings.Join(parts, " › "), nil
}

// resolveFolder maps a user-supplied argument to a folder id. It accepts a
// literal item id, or the title of a folder in the current listing; "/"
// and "root" mean the root level (nil).
func resolveFolder(sess *service.Session, arg string) (*string, error) {
	if arg == "" || arg == "/" || arg == "root" {
		return nil, nil
	}
	if it, ok := sess.Store().GetByID(arg); ok {
		if !it.IsFolder() {
			return nil, fmt.Errorf("%s is a note, not a folder", arg)
		}
		return &it.ID, nil
	}
	for _, it := range sess.List("") {
		if it.IsFolder() && it.Title == arg {
			id := it.ID
			return &id, nil
		}
	}
	return nil, fmt.Errorf("no folder named %q here", arg)
}
