package model

// Provider identifies the upstream system a record was read from.
type Provider string

const (
	ProviderRedmine    Provider = "redmine"
	ProviderGitLab     Provider = "gitlab"
	ProviderMattermost Provider = "mattermost"
)

// DisplayName is the label shown next to records in reports.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderRedmine:
		return "Redmine"
	case ProviderGitLab:
		return "GitLab"
	case ProviderMattermost:
		return "Mattermost"
	}
	return string(p)
}
