// Package e2e provides end-to-end tests over a generated corpus of CV files.
package e2e

import (
	"fmt"
	"strings"
)

// CV is one generated CV: the file name stem, its text, and the skill only it mentions.
type CV struct {
	Name      string
	Signature string
	// Occurrences is how many times Signature appears in Text.
	Occurrences int
	Text        string
}

// Corpus holds generated CVs whose signature skills are unique across the corpus.
type Corpus struct {
	CVs []CV
}

var signatures = []string{
	"Kubernetes", "PostgreSQL", "TypeScript", "Elasticsearch", "Terraform",
	"Prometheus", "GraphQL", "RabbitMQ", "Cassandra", "Kotlin",
	"Haskell", "Erlang", "Fortran", "Clojure", "Ansible",
	"Jenkins", "Grafana", "Snowflake", "Tableau", "Photoshop",
	"Figma", "Blender", "Unity3D", "Arduino", "MATLAB",
	"Simulink", "AutoCAD", "SolidWorks", "Salesforce", "Zendesk",
	"Kafka", "Hadoop", "Airflow", "Pandas", "PyTorch",
	"TensorFlow", "OpenCV", "Django", "Laravel", "Svelte",
}

var roles = []string{"Backend Engineer", "Data Analyst", "Product Designer", "Site Reliability Engineer"}

// BuildCorpus returns n CVs (at most one per signature skill). CV i mentions its
// signature i%3+1 times.
func BuildCorpus(n int) *Corpus {
	n = min(n, len(signatures))
	cvs := make([]CV, 0, n)
	for i := 0; i < n; i++ {
		sig := signatures[i]
		k := i%3 + 1
		cvs = append(cvs, CV{
			Name:        fmt.Sprintf("cv-%03d", i+1),
			Signature:   sig,
			Occurrences: k,
			Text:        cvText(roles[i%len(roles)], sig, k, i%10+1),
		})
	}
	return &Corpus{CVs: cvs}
}

func cvText(role, sig string, k, years int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary\n%s with %d years of experience.\n", role, years)
	fmt.Fprintf(&b, "Skills\n- %s\n- Communication\n", sig)
	b.WriteString("Experience\nEngineer January 2019 to Current Acme Corp\n")
	b.WriteString("Education\nBachelor of Computer Science\n")
	b.WriteString("Projects\n")
	for j := 1; j < k; j++ {
		fmt.Fprintf(&b, "Delivered project %d with %s.\n", j, sig)
	}
	return b.String()
}

// Signatures returns every signature skill in corpus order.
func (c *Corpus) Signatures() []string {
	out := make([]string, len(c.CVs))
	for i, cv := range c.CVs {
		out[i] = cv.Signature
	}
	return out
}
