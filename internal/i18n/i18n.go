package i18n

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type Translations struct {
	bundle   *i18n.Bundle
	localize *i18n.Localizer
}

// NewTranslations builds the message bundle: embedded English defaults plus
// any locales/active.*.toml files found under localesDir.
func NewTranslations(defaultLang string, localesDir string) (*Translations, error) {
	if defaultLang == "" {
		return nil, fmt.Errorf("default language must not be empty")
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.MustParseMessageFileBytes([]byte(defaultMessages), "default.en.toml")

	if localesDir == "" {
		localesDir = "locales"
	}
	files, err := filepath.Glob(filepath.Join(localesDir, "active.*.toml"))
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}

	for _, file := range files {
		if _, err := bundle.LoadMessageFile(file); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}

	localize := i18n.NewLocalizer(bundle, defaultLang)

	return &Translations{
		bundle:   bundle,
		localize: localize,
	}, nil
}

func (t *Translations) SetLanguage(lang string) error {
	for _, tag := range t.bundle.LanguageTags() {
		if tag.String() == lang {
			t.localize = i18n.NewLocalizer(t.bundle, lang)
			return nil
		}
	}
	return fmt.Errorf("language '%s' not supported", lang)
}

func (t *Translations) GetMessage(messageID string, count int, templateData map[string]interface{}) string {
	localized, err := t.localize.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID: messageID,
		},
		PluralCount:  count,
		TemplateData: templateData,
	})
	if err != nil {
		return "Translation missing: " + messageID
	}
	return localized
}

var defaultMessages = `
	[tool.review_pull_request.description]
	other = "Fetch a pull request with its changed files, review comments, and review decisions, rendered as structured text"

	[tool.get_pr_summary.description]
	other = "Fetch only the metadata summary of a pull request (title, author, state, branches, change counts)"

	[tool.get_pr_comments.description]
	other = "Fetch the review comments of a pull request in creation order"

	[tool.list_my_pull_requests.description]
	other = "List your recent open pull requests, both the ones you authored and the ones awaiting your review"

	[tool.arg.pr.description]
	other = "Pull request URL (https://github.com/owner/repo/pull/123) or owner/repo#123 triple"

	[prompt.code-review.description]
	other = "Review the changes of a pull request and point out problems"

	[prompt.code-review.guidance]
	other = "You are reviewing the pull request below. Examine the summary, the changed files with their patches, the existing review comments, and the review decisions. Point out bugs, risky changes, and missing tests. Be specific: reference file paths and lines, and distinguish blocking issues from suggestions. Do not restate the diff."

	[prompt.summarize-pr.description]
	other = "Summarize what a pull request changes and why"

	[prompt.summarize-pr.guidance]
	other = "Summarize the pull request below for a reader who has not seen the code. Cover what changed, why, and anything reviewers already flagged. Keep it under 200 words and lead with the purpose of the change."

	[render.truncated_note]
	other = "(list truncated at the configured page limit; {{.Count}} items shown)"
	`
