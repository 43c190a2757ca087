package locator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"safescout/pkg/llm"
	"safescout/pkg/model"
)

type stubGeocoder struct {
	addr string
	err  error
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _ model.Coordinates) (string, error) {
	return s.addr, s.err
}

type stubProvider struct {
	lastPrompt string
	result     *llm.GroundedResult
	err        error
}

func (s *stubProvider) GenerateGrounded(_ context.Context, _ string, prompt string) (*llm.GroundedResult, error) {
	s.lastPrompt = prompt
	return s.result, s.err
}

func (s *stubProvider) GenerateVision(_ context.Context, _ string, _ string, _ *llm.ImagePart) (string, error) {
	return "", errors.New("not implemented")
}

func TestResolveUsesAddressInPrompt(t *testing.T) {
	p := &stubProvider{result: &llm.GroundedResult{Text: "Recent reports."}}
	r := New(&stubGeocoder{addr: "1 Main St, Springfield"}, p)

	got := r.Resolve(context.Background(), model.NewCoordinates(40.0, -75.0))
	if got.Text != "Recent reports." {
		t.Errorf("Text = %q", got.Text)
	}
	want := "Search for any recent suspicious activity, police reports, or relevant news stories/information " +
		"near 1 Main St, Springfield and its surrounding neighborhood. Provide the most credible information available prioritizing proximity."
	if p.lastPrompt != want {
		t.Errorf("prompt = %q, want %q", p.lastPrompt, want)
	}
}

func TestResolveGeocodeFailureFallsBackToGenericArea(t *testing.T) {
	p := &stubProvider{result: &llm.GroundedResult{Text: "ok"}}
	r := New(&stubGeocoder{err: errors.New("quota")}, p)

	r.Resolve(context.Background(), model.NewCoordinates(0, 0))
	wantFragment := "near the specified location and its surrounding neighborhood"
	if !strings.Contains(p.lastPrompt, wantFragment) {
		t.Errorf("prompt = %q, want fragment %q", p.lastPrompt, wantFragment)
	}
}

func TestResolveNilGeocoder(t *testing.T) {
	p := &stubProvider{result: &llm.GroundedResult{Text: "ok"}}
	r := New(nil, p)

	got := r.Resolve(context.Background(), model.NewCoordinates(0, 0))
	if got.Text != "ok" {
		t.Errorf("Text = %q, want ok", got.Text)
	}
}

func TestResolveProviderErrorYieldsFallbackText(t *testing.T) {
	p := &stubProvider{err: llm.ErrNoContent}
	r := New(&stubGeocoder{addr: "somewhere"}, p)

	got := r.Resolve(context.Background(), model.NewCoordinates(1, 2))
	if got.Text != FallbackText {
		t.Errorf("Text = %q, want %q", got.Text, FallbackText)
	}
	if got.Sources == nil || len(got.Sources) != 0 {
		t.Errorf("Sources = %v, want empty non-nil", got.Sources)
	}
}

func TestParseCitations(t *testing.T) {
	rendered := `<div class="container">
		<a class="chip" href="https://news.example/a">Example News</a>
		<a class="chip more" href="https://tribune.example/b">  Tribune  </a>
		<a href="https://nochip.example">skip me</a>
	</div>`

	want := []model.Source{
		{Name: "Example News", Link: "https://news.example/a"},
		{Name: "Tribune", Link: "https://tribune.example/b"},
	}
	got := ParseCitations(rendered)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCitations() = %v, want %v", got, want)
	}
}

func TestParseCitationsKeepsDuplicates(t *testing.T) {
	rendered := `<a class="chip" href="https://x.example">X</a><a class="chip" href="https://x.example">X</a>`
	if got := ParseCitations(rendered); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestParseCitationsEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "<div>no anchors</div>"} {
		if got := ParseCitations(in); len(got) != 0 {
			t.Errorf("ParseCitations(%q) = %v, want empty", in, got)
		}
	}
}
