package tree

import (
	"testing"

	"github.com/cmdvault/cmdvault/pkg/models"
)

// searchFixture builds:
//
//	network/
//	  ping          (cmd "ping -c 4", tags: net)
//	  dns lookup    (cmd "dig +short", description "resolve a hostname")
//	aws/
//	  s3 sync       (cmd "aws s3 sync", tags: aws, cloud)
func searchFixture() *Store {
	ping := models.NewCommand("ping", "ping -c 4")
	ping.Tags = []string{"net"}
	dns := models.NewCommand("dns lookup", "dig +short")
	dns.Description = "resolve a hostname"
	network := models.NewFolder("network")
	network.Children = []*models.Node{ping, dns}

	s3 := models.NewCommand("s3 sync", "aws s3 sync")
	s3.Tags = []string{"aws", "cloud"}
	awsFolder := models.NewFolder("aws")
	awsFolder.Children = []*models.Node{s3}

	return New([]*models.Node{network, awsFolder})
}

func visibleNames(s *Store, raw string) []string {
	var names []string
	for _, r := range s.Visible(ParseQuery(raw)) {
		names = append(names, r.Node.Name)
	}
	return names
}

func TestQueryGrammar(t *testing.T) {
	s := searchFixture()

	tests := []struct {
		query string
		want  []string
	}{
		// Tag query matches the command and keeps its ancestor visible.
		{"#net", []string{"network", "ping"}},
		// Tag search is exact-field, so the aws folder name alone does not hit.
		{"#aws", []string{"aws", "s3 sync"}},
		// Description query.
		{"d:hostname", []string{"network", "dns lookup"}},
		// Folder query pulls the matched folder's whole subtree in.
		{"f:network", []string{"network", "ping", "dns lookup"}},
		// Command-body query.
		{"c:ping", []string{"network", "ping"}},
		// General query over name, cmd, description and tags.
		{"dig", []string{"network", "dns lookup"}},
		// Case-insensitive.
		{"PING", []string{"network", "ping"}},
		// No hits.
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := visibleNames(s, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("Visible(%q) = %v, want %v", tt.query, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Visible(%q) = %v, want %v", tt.query, got, tt.want)
				}
			}
		})
	}
}

func TestVisibleRespectsCollapseOnlyWithoutFilter(t *testing.T) {
	s := searchFixture()
	network := s.Roots()[0]
	network.Collapsed = true

	got := visibleNames(s, "")
	if len(got) != 3 || got[0] != "network" || got[1] != "aws" {
		t.Errorf("collapsed projection = %v", got)
	}

	// A filter overrides collapse so hits cannot hide.
	got = visibleNames(s, "c:ping")
	if len(got) != 2 || got[1] != "ping" {
		t.Errorf("filtered projection = %v", got)
	}
}

func TestVisibleDepthAndParent(t *testing.T) {
	s := searchFixture()
	rows := s.Visible(ParseQuery(""))

	if rows[0].Depth != 0 || rows[0].ParentID != "" {
		t.Errorf("root row = %+v", rows[0])
	}
	if rows[1].Depth != 1 || rows[1].ParentID != rows[0].Node.ID {
		t.Errorf("child row = %+v", rows[1])
	}
}

func TestIndexOf(t *testing.T) {
	s := searchFixture()
	rows := s.Visible(ParseQuery(""))

	if i := IndexOf(rows, rows[2].Node.ID); i != 2 {
		t.Errorf("IndexOf = %d, want 2", i)
	}
	if i := IndexOf(rows, "missing"); i != -1 {
		t.Errorf("IndexOf missing = %d, want -1", i)
	}
}
