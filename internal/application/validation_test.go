package application

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"mdlint/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "sourcePath",
			value:     "docs",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "sourcePath",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "sourcePath",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if !strings.Contains(valErr.Message, "source path") {
					t.Errorf("expected readable field name in %q", valErr.Message)
				}
			}
		})
	}
}

func TestValidateMarkdownName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "summary", value: "SUMMARY.md", wantErr: false},
		{name: "readme", value: "README.md", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "wrong extension", value: "SUMMARY.txt", wantErr: true},
		{name: "nested path", value: "docs/SUMMARY.md", wantErr: true},
		{name: "windows path", value: `docs\SUMMARY.md`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMarkdownName("toctree", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMarkdownName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	discovery := &DiscoveryError{Path: "/nope", Err: fs.ErrNotExist}
	if !errors.Is(discovery, ErrDiscovery) {
		t.Error("DiscoveryError should match ErrDiscovery")
	}
	if !errors.Is(discovery, fs.ErrNotExist) {
		t.Error("DiscoveryError should unwrap to its cause")
	}
	if errors.Is(discovery, ErrStoreInit) {
		t.Error("DiscoveryError must not match ErrStoreInit")
	}

	storeInit := &StoreInitError{Path: "mdlint.db", Err: errors.New("locked")}
	if !errors.Is(storeInit, ErrStoreInit) {
		t.Error("StoreInitError should match ErrStoreInit")
	}
	if !strings.Contains(storeInit.Error(), "mdlint.db") {
		t.Errorf("expected path in message, got %q", storeInit.Error())
	}
}

func ptr(s string) *string { return &s }

func TestDescribeLink(t *testing.T) {
	target := int64(3)

	tests := []struct {
		name string
		link domain.InternalLink
		want string
	}{
		{
			name: "missing file",
			link: domain.InternalLink{LinkText: "Setup", Target: "setup.md"},
			want: "[Setup](setup.md): target file not found",
		},
		{
			name: "missing anchor",
			link: domain.InternalLink{LinkText: "Setup", Target: "setup.md", TargetFileID: &target, Anchor: ptr("install")},
			want: "[Setup](setup.md#install): anchor not found",
		},
		{
			name: "malformed",
			link: domain.InternalLink{LinkText: "Bad", Target: `a"b.md`, Malformed: true},
			want: `[Bad](a"b.md): malformed target`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeLink(tt.link); got != tt.want {
				t.Errorf("DescribeLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLintResult_Findings(t *testing.T) {
	result := &LintResult{
		Toc: &domain.TocReport{
			Duplicates: []string{"intro.md"},
			Orphans:    []string{"lost.md"},
			Missing:    []string{"ghost.md"},
		},
		InvalidLinks: []FileLinks{
			{Filename: "guide.md", Links: []domain.InternalLink{{LinkText: "x", Target: "y.md", Line: 7}}},
		},
	}

	if result.Clean() {
		t.Fatal("result with findings should not be clean")
	}

	findings := result.Findings()
	wantKinds := []string{domain.FindingDuplicate, domain.FindingMissing, domain.FindingOrphan, domain.FindingBrokenLink}
	if len(findings) != len(wantKinds) {
		t.Fatalf("expected %d findings, got %d", len(wantKinds), len(findings))
	}
	for i, kind := range wantKinds {
		if findings[i].Kind != kind {
			t.Errorf("finding %d: kind = %s, want %s", i, findings[i].Kind, kind)
		}
	}
	if got := findings[3].Location(); got != "guide.md:7" {
		t.Errorf("Location() = %q, want guide.md:7", got)
	}

	if !(&LintResult{}).Clean() {
		t.Error("empty result should be clean")
	}
}

func TestSortFileLinks(t *testing.T) {
	groups := []FileLinks{{Filename: "z.md"}, {Filename: "a.md"}, {Filename: "m.md"}}
	SortFileLinks(groups)
	for i, want := range []string{"a.md", "m.md", "z.md"} {
		if groups[i].Filename != want {
			t.Errorf("groups[%d] = %s, want %s", i, groups[i].Filename, want)
		}
	}
}
