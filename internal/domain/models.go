package domain

// Domain contains the Dokploy entities the probe renders.

type Project struct {
	ProjectID    string               `json:"projectId"`
	Name         string               `json:"name"`
	Applications []ApplicationSummary `json:"applications"`
}

type ApplicationSummary struct {
	ApplicationID string `json:"applicationId"`
	Name          string `json:"name"`
}

// ProjectList is the shape of the project listing shown when no live data is available.
type ProjectList struct {
	Projects []Project `json:"projects"`
}

// ExampleProjectList returns placeholder data for documentation output.
func ExampleProjectList() ProjectList {
	return ProjectList{
		Projects: []Project{
			{
				ProjectID: "example-project-id",
				Name:      "My Project",
				Applications: []ApplicationSummary{
					{ApplicationID: "example-app-id", Name: "My App"},
				},
			},
		},
	}
}
