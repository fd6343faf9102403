package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nikbrunner/forkify/internal/model"
)

// UserRecipesFolder is the folder user-uploaded recipes are exported to.
const UserRecipesFolder = "My recipes"

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/forkify-bookmarks-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("forkify-bookmarks-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// RecipeIDAttr carries the recipe id on each exported link so the file
// can be imported again.
const RecipeIDAttr = "RECIPE_ID"

// ExportHTML exports bookmarked recipes to Netscape bookmark HTML format.
// Recipes are grouped into one folder per publisher, with user-uploaded
// recipes in UserRecipesFolder. Folders are sorted by name; recipes keep
// their bookmark order.
func ExportHTML(recipes []model.Recipe, exportedAt time.Time) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>forkify bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, group := range groupByFolder(recipes) {
		writeFolder(&b, group, exportedAt.Unix())
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

type folder struct {
	name    string
	recipes []model.Recipe
}

func groupByFolder(recipes []model.Recipe) []folder {
	index := map[string]int{}
	var folders []folder
	for _, rec := range recipes {
		name := rec.Publisher
		if rec.IsUserRecipe() {
			name = UserRecipesFolder
		}
		i, ok := index[name]
		if !ok {
			i = len(folders)
			index[name] = i
			folders = append(folders, folder{name: name})
		}
		folders[i].recipes = append(folders[i].recipes, rec)
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].name < folders[j].name
	})
	return folders
}

// writeFolder writes a folder header and its recipes.
func writeFolder(b *strings.Builder, f folder, timestamp int64) {
	prefix := "    "

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(f.name))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)

	for _, rec := range f.recipes {
		fmt.Fprintf(b,
			"%s    <DT><A HREF=\"%s\" ADD_DATE=\"%d\" %s=\"%s\">%s</A>\n",
			prefix,
			html.EscapeString(rec.SourceURL),
			timestamp,
			RecipeIDAttr,
			html.EscapeString(rec.ID),
			html.EscapeString(rec.Title),
		)
		fmt.Fprintf(b, "%s    <DD>%d min, %d servings\n", prefix, rec.CookingTime, rec.Servings)
	}

	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}
