package commands

import (
	"embed"
	"io"
	"sort"
	"text/template"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/pkg/lint"
)

//go:embed templates/storelint.yaml.tmpl
var templateFS embed.FS

var configTemplate = template.Must(template.ParseFS(templateFS, "templates/storelint.yaml.tmpl"))

type templateGroup struct {
	Title string
	Rules []lint.RuleInfo
}

type templateData struct {
	Exclude []string
	Groups  []templateGroup
	Options []lint.RuleInfo
}

// writeConfigTemplate renders the starter configuration. Every registered
// rule is listed with its default severity, commented out.
func writeConfigTemplate(w io.Writer) error {
	rules := lint.AllRules()
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].ID < rules[j].ID
	})

	data := templateData{Exclude: config.DefaultExclude}
	for _, group := range groupRules(rules) {
		data.Groups = append(data.Groups, templateGroup{
			Title: titleCaser.String(group[0].Group),
			Rules: group,
		})
	}
	for _, rule := range rules {
		if len(rule.ConfigKeys) > 0 {
			data.Options = append(data.Options, rule)
		}
	}
	return configTemplate.Execute(w, data)
}
