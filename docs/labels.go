package docs

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Labels are the fixed strings of the docs page.
type Labels struct {
	Types    string
	APIs     string
	Group    string
	Source   string
	Params   string
	Required string
	Examples string
	Default  string
	None     string
	OneOf    string
	Other    string
}

var supported = []language.Tag{language.English, language.Chinese}

var matcher = language.NewMatcher(supported)

var labels = map[language.Tag]Labels{
	language.English: {
		Types:    "Custom Types",
		APIs:     "APIs",
		Group:    "Group: ",
		Source:   "Source file: ",
		Params:   "Parameters",
		Required: "Required parameters",
		Examples: "Examples",
		Default:  "default: ",
		None:     "none",
		OneOf:    " (one of)",
		Other:    "Other",
	},
	language.Chinese: {
		Types:    "自定义类型",
		APIs:     "API列表",
		Group:    "分组：",
		Source:   "源文件：",
		Params:   "请求参数",
		Required: "必须参数",
		Examples: "使用示例",
		Default:  "默认值:",
		None:     "无",
		OneOf:    " 其中一个",
		Other:    "其他",
	},
}

// Match returns the supported language closest to the preferred ones.
// English is the fallback.
func Match(preferred ...language.Tag) language.Tag {
	if len(preferred) == 0 {
		return language.English
	}
	_, idx, conf := matcher.Match(preferred...)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// MatchAcceptLanguage parses an Accept-Language header and matches it.
func MatchAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return language.English
	}
	return Match(tags...)
}

// LabelsFor returns the labels of the language closest to tag.
func LabelsFor(tag language.Tag) Labels {
	return labels[Match(tag)]
}

func groupTitle(tag language.Tag, group string) string {
	return cases.Title(tag, cases.NoLower).String(group)
}
