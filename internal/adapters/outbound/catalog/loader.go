package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/driftcheck/driftcheck/internal/domain"
)

// Loader implements domain.CatalogLoader. It accepts a single YAML file, a
// directory of YAML files (merged in sorted filename order), or an XLSX
// workbook. YAML parsing goes through yaml.Node so catalog declaration
// order survives into the Tree.
type Loader struct{}

// New creates a Loader.
func New() *Loader { return &Loader{} }

// Load reads the catalog at path. For directories, XLSX files win over YAML
// files when both are present, mirroring how baseline catalogs were
// historically distributed.
func (l *Loader) Load(path string) (*domain.Tree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return l.loadDir(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Parse(filepath.Base(path), data)
}

// Parse decodes catalog bytes; name's extension selects the format.
func (l *Loader) Parse(name string, data []byte) (*domain.Tree, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xls":
		return parseWorkbook(data)
	default:
		return parseYAML(data)
	}
}

func (l *Loader) loadDir(dir string) (*domain.Tree, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var yamlFiles, excelFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, e.Name())
		case ".xlsx", ".xls":
			excelFiles = append(excelFiles, e.Name())
		}
	}

	files := yamlFiles
	if len(excelFiles) > 0 {
		files = excelFiles
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no catalog files (yaml or xlsx) in %s", dir)
	}
	sort.Strings(files)

	merged := domain.NewTree()
	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		tree, err := l.Parse(name, data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		merged.Merge(tree)
	}
	return merged, nil
}

func parseYAML(data []byte) (*domain.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return domain.NewTree(), nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &domain.InputShapeError{Input: "catalog"}
	}

	tree, err := mappingToTree(root)
	if err != nil {
		return nil, err
	}
	return normalizeShape(tree), nil
}

func mappingToTree(n *yaml.Node) (*domain.Tree, error) {
	tree := domain.NewTree()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := nodeToValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		tree.Set(key, v)
	}
	return tree, nil
}

func nodeToValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		return mappingToTree(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("decoding scalar at line %d: %w", n.Line, err)
		}
		return v, nil
	}
}

// normalizeShape converts the two legacy catalog layouts into the plain
// field -> allowed-values form:
//
//	categories:                   names:
//	  - category: OS Language       - ThinkPad X1
//	    choices: [en-US, de-DE]     - Latitude 7440
func normalizeShape(tree *domain.Tree) *domain.Tree {
	if cats, ok := tree.Get("categories"); ok {
		if list, isList := cats.([]any); isList {
			out := domain.NewTree()
			for _, item := range list {
				sub, isTree := item.(*domain.Tree)
				if !isTree {
					continue
				}
				name, _ := sub.Get("category")
				if name == nil {
					name, _ = sub.Get("name")
				}
				choices, _ := sub.Get("choices")
				nameStr, okName := name.(string)
				choiceList, okChoices := choices.([]any)
				if !okName || !okChoices {
					continue
				}
				out.Set(nameStr, flattenChoices(choiceList))
			}
			return out
		}
	}

	if names, ok := tree.Get("names"); ok && tree.Len() == 1 {
		if list, isList := names.([]any); isList {
			out := domain.NewTree()
			out.Set("device_and_model", list)
			return out
		}
	}

	return tree
}

// flattenChoices unwraps the [value, note] pair form some catalogs use for
// their choice lists, keeping only the value.
func flattenChoices(choices []any) []any {
	out := make([]any, 0, len(choices))
	for _, c := range choices {
		if pair, ok := c.([]any); ok && len(pair) > 0 {
			out = append(out, pair[0])
			continue
		}
		out = append(out, c)
	}
	return out
}

func parseWorkbook(data []byte) (*domain.Tree, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return domain.NewTree(), nil
	}

	header := rows[0]
	if catCol, choiceCol, ok := categoryColumns(header); ok {
		return workbookRows(rows[1:], catCol, choiceCol), nil
	}
	return workbookColumns(header, rows[1:]), nil
}

// categoryColumns detects the row-per-category layout: a "category" column
// and a "choices" column holding comma-separated allowed values.
func categoryColumns(header []string) (int, int, bool) {
	catCol, choiceCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "category":
			catCol = i
		case "choices":
			choiceCol = i
		}
	}
	return catCol, choiceCol, catCol >= 0 && choiceCol >= 0
}

func workbookRows(rows [][]string, catCol, choiceCol int) *domain.Tree {
	tree := domain.NewTree()
	for _, row := range rows {
		if catCol >= len(row) || choiceCol >= len(row) {
			continue
		}
		category := strings.TrimSpace(row[catCol])
		if category == "" {
			continue
		}
		var allowed []any
		for _, c := range strings.Split(row[choiceCol], ",") {
			if c = strings.TrimSpace(c); c != "" {
				allowed = append(allowed, c)
			}
		}
		if len(allowed) > 0 {
			tree.Set(category, allowed)
		}
	}
	return tree
}

// workbookColumns treats each column as one category with its allowed
// values listed underneath, deduplicated in first-seen order.
func workbookColumns(header []string, rows [][]string) *domain.Tree {
	tree := domain.NewTree()
	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		seen := map[string]bool{}
		var allowed []any
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			allowed = append(allowed, v)
		}
		if len(allowed) > 0 {
			tree.Set(name, allowed)
		}
	}
	return tree
}
