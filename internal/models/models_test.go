package models

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gookit/color"
)

func TestMain(m *testing.M) {
	color.Disable()
	os.Exit(m.Run())
}

func TestFullVersion(t *testing.T) {
	tests := []struct {
		name     string
		pkg      ArchwebPackage
		expected string
	}{
		{"with epoch", ArchwebPackage{Epoch: 2, Pkgver: "1.2.3", Pkgrel: "10"}, "2:1.2.3-10"},
		{"zero epoch", ArchwebPackage{Epoch: 0, Pkgver: "1.2.3", Pkgrel: "10"}, "1.2.3-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pkg.FullVersion(); got != tt.expected {
				t.Errorf("FullVersion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		input  string
		epoch  int64
		pkgver string
		pkgrel string
	}{
		{"2:1.2.3-10", 2, "1.2.3", "10"},
		{"1.2.3-10", 0, "1.2.3", "10"},
		{"1.0.r12.g1234-abc-1", 0, "1.0.r12.g1234-abc", "1"},
		{"1.0", 0, "1.0", ""},
		{"x:1.0-1", 0, "1.0", "1"},
	}

	for _, tt := range tests {
		epoch, pkgver, pkgrel := SplitVersion(tt.input)
		if epoch != tt.epoch || pkgver != tt.pkgver || pkgrel != tt.pkgrel {
			t.Errorf("SplitVersion(%q) = (%d, %q, %q), want (%d, %q, %q)",
				tt.input, epoch, pkgver, pkgrel, tt.epoch, tt.pkgver, tt.pkgrel)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		parsed, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", s, err)
		}
		if parsed != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s, parsed, s)
		}
	}

	for _, invalid := range []string{"FLAKY", "bad", "Good", " GOOD", ""} {
		if _, err := ParseStatus(invalid); err == nil {
			t.Errorf("ParseStatus(%q) should fail", invalid)
		}
	}

	var decoded RebuilderdPackage
	if err := json.Unmarshal([]byte(`{"name":"bash","status":"good"}`), &decoded); err == nil {
		t.Error("lowercase wire status should be rejected")
	}

	var zero Status
	if zero != StatusUnknown {
		t.Errorf("zero Status = %v, want UNKWN", zero)
	}
}

func TestRebuilderdPackageUnmarshal(t *testing.T) {
	data := `[
		{"name":"foo","version":"1.0-1","status":"GOOD","distro":"archlinux","suite":"core","architecture":"x86_64","url":"","build_id":42},
		{"name":"bar","version":"2.0-1","status":"BAD","distro":"archlinux","suite":"extra","architecture":"x86_64","url":"","buildId":7,"built_at":"2021-10-01T10:00:00"},
		{"name":"baz","version":"3.0-1","status":"UNKWN","distro":"archlinux","suite":"extra","architecture":"any","url":"","build_id":null}
	]`

	var pkgs []RebuilderdPackage
	if err := json.Unmarshal([]byte(data), &pkgs); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if len(pkgs) != 3 {
		t.Fatalf("Expected 3 packages, got %d", len(pkgs))
	}

	if pkgs[0].Status != StatusGood || pkgs[0].GetBuildID() != 42 {
		t.Errorf("foo = %v/%d, want GOOD/42", pkgs[0].Status, pkgs[0].GetBuildID())
	}
	if pkgs[1].Status != StatusBad || pkgs[1].GetBuildID() != 7 {
		t.Errorf("bar = %v/%d, want BAD/7", pkgs[1].Status, pkgs[1].GetBuildID())
	}
	if pkgs[1].BuiltAt == nil || *pkgs[1].BuiltAt != "2021-10-01T10:00:00" {
		t.Errorf("bar built_at = %v", pkgs[1].BuiltAt)
	}
	if pkgs[2].Status != StatusUnknown || pkgs[2].GetBuildID() != 0 {
		t.Errorf("baz = %v/%d, want UNKWN/0", pkgs[2].Status, pkgs[2].GetBuildID())
	}
}

func TestRebuilderdPackageUnmarshalInvalidStatus(t *testing.T) {
	var pkg RebuilderdPackage
	if err := json.Unmarshal([]byte(`{"name":"foo","status":"MAYBE"}`), &pkg); err == nil {
		t.Error("Expected error for unknown status")
	}
}

func TestSearchResultPagination(t *testing.T) {
	var paged SearchResult
	if err := json.Unmarshal([]byte(`{"version":2,"limit":250,"valid":true,"results":[],"num_pages":3,"page":1}`), &paged); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	page, numPages, ok := paged.Pagination()
	if !ok || page != 1 || numPages != 3 {
		t.Errorf("Pagination() = (%d, %d, %v), want (1, 3, true)", page, numPages, ok)
	}

	var camel SearchResult
	if err := json.Unmarshal([]byte(`{"results":[],"numPages":2,"page":1}`), &camel); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if _, numPages, ok := camel.Pagination(); !ok || numPages != 2 {
		t.Errorf("numPages spelling not accepted: (%d, %v)", numPages, ok)
	}

	var single SearchResult
	if err := json.Unmarshal([]byte(`{"results":[{"pkgname":"foo"}]}`), &single); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if _, _, ok := single.Pagination(); ok {
		t.Error("Response without pagination fields should not be paginated")
	}
	if len(single.Results) != 1 || single.Results[0].Pkgname != "foo" {
		t.Errorf("Unexpected results: %+v", single.Results)
	}
}

func TestPackageString(t *testing.T) {
	pkg := Package{
		Data:   ArchwebPackage{Pkgname: "test", Pkgver: "0.1", Pkgrel: "2"},
		Status: StatusGood,
	}
	if got := pkg.String(); got != "test 0.1-2 GOOD " {
		t.Errorf("String() = %q", got)
	}

	flag := "today"
	pkg = Package{
		Data:   ArchwebPackage{Pkgname: "xyz", Pkgver: "0.4", Pkgrel: "1", Epoch: 1, FlagDate: &flag},
		Status: StatusBad,
	}
	if got := pkg.String(); got != "xyz 1:0.4-1 BAD  " {
		t.Errorf("String() = %q", got)
	}
}

func TestArchwebPackageInfo(t *testing.T) {
	flag := "today"
	pkg := ArchwebPackage{
		Pkgname:        "test",
		Pkgbase:        "test_",
		Repo:           "foo",
		Arch:           "i686",
		Pkgver:         "1.2.3",
		Pkgrel:         "10",
		Epoch:          2,
		Pkgdesc:        "A test package",
		URL:            "example.com",
		CompressedSize: 660662,
		InstalledSize:  678620,
		BuildDate:      "2000",
		LastUpdate:     "2000",
		FlagDate:       &flag,
		Maintainers:    []string{"orhun", "nuhro"},
		Packager:       "orhun",
		Licenses:       []string{"MIT", "GPL"},
	}

	expected := "\tName            : test\n" +
		"\tVersion         : 2:1.2.3-10\n" +
		"\tArchitecture    : i686\n" +
		"\tRepository      : foo\n" +
		"\tDescription     : A test package\n" +
		"\tUpstream URL    : example.com\n" +
		"\tLicense(s)      : MIT, GPL\n" +
		"\tMaintainer(s)   : orhun, nuhro\n" +
		"\tPackage Size    : 645 KiB\n" +
		"\tInstalled Size  : 663 KiB\n" +
		"\tLast Packager   : orhun\n" +
		"\tBuild Date      : 2000\n" +
		"\tLast Updated    : 2000\n" +
		"\tFlag Date       : today\n" +
		"\tPackage URL     : https://archlinux.org/packages/foo/i686/test_/\n"

	if got := pkg.Info(); got != expected {
		t.Errorf("Info() mismatch\ngot:\n%s\nwant:\n%s", got, expected)
	}

	pkg.FlagDate = nil
	if strings.Contains(pkg.Info(), "Flag Date") {
		t.Error("Info() should omit Flag Date for packages that are not flagged")
	}
}

func TestLogType(t *testing.T) {
	if LogBuild.String() != "build" || LogBuild.Endpoint() != "log" {
		t.Errorf("LogBuild = %s/%s", LogBuild, LogBuild.Endpoint())
	}
	if LogDiffoscope.String() != "diffoscope" || LogDiffoscope.Endpoint() != "diffoscope" {
		t.Errorf("LogDiffoscope = %s/%s", LogDiffoscope, LogDiffoscope.Endpoint())
	}
}

func TestReproStatusError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewError(ErrRequest, cause)

	if err.Error() != "[Request] connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	var rsErr *ReproStatusError
	if !errors.As(err, &rsErr) || rsErr.Type != ErrRequest {
		t.Error("errors.As should expose the error type")
	}

	withPkg := &ReproStatusError{Type: ErrLocalDB, Package: "foo", Err: cause}
	if withPkg.Error() != "[LocalDB] foo: connection refused" {
		t.Errorf("Error() = %q", withPkg.Error())
	}

	if NewError(ErrIO, nil) != nil {
		t.Error("NewError(nil) should be nil")
	}
}
