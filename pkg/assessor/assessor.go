// Package assessor combines the resolved location context with the
// traveler's photo and asks the model for a safety assessment. The
// prompt text is the model contract and must not be reworded.
package assessor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"safescout/pkg/extract"
	"safescout/pkg/llm"
	"safescout/pkg/llm/imageutil"
	"safescout/pkg/model"
)

// ParseFailureSummary replaces the summary when the model response
// carries no usable JSON object.
const ParseFailureSummary = "No valid JSON returned or parsing error."

const promptPreamble = "You  help travelers in a forign area descreetly avoid suspicious and unknown situations to them. " +
	"You combine location-based news (the area the traveler is in right now) and an image (what the traveler is seeing right now) " +
	"to identify potential risks and avoid dangerous situations by giving them context of the situation and advice how to discreetly proceed.\n\n" +
	"LOCATION DATA:\n%s\n\n" +
	"IMAGE DATA: %s\n" +
	"Please provide short 3 sentence summary of the relevent information," +
	"the 1st sentance should be what you see, the second sentance should be the context behind it, " +
	"the 3rd sentance should be advice on how to discreetly avoid the situation. "

const verdictPromptTail = "then condence the summary and output either 'Safe' or 'Danger' \n\n" +
	"Return your answer in valid JSON with the keys: 'safe_or_danger' (string) " +
	"and 'summary' (string). Example:\n" +
	"{\n" +
	"  \"safe_or_danger\": \"Safe or Danger\",\n" +
	"  \"summary\": \"three sentances sentences here\"\n" +
	"}\n"

const keywordsPromptTail = "that incorporates both the location info and what's seen in the image. " +
	"then condence the summary to produce 5 key words to be displayed for the traveler to quicky view to understand\n\n" +
	"Return your answer in valid JSON with the keys: 'words' (array of strings) " +
	"and 'summary' (string). Example:\n" +
	"{\n" +
	"  \"words\": [\"keyword1\", \"keyword2\", ...],\n" +
	"  \"summary\": \"one or two sentences here\"\n" +
	"}\n"

// Assessor performs the combined location+image analysis. It never
// returns an error: every failure degrades to a fallback assessment so
// the rest of the run can proceed.
type Assessor struct {
	provider llm.Provider
	variant  model.AssessmentVariant
}

// New creates an Assessor for the given output variant.
func New(p llm.Provider, variant model.AssessmentVariant) *Assessor {
	return &Assessor{provider: p, variant: variant}
}

// Assess analyzes locationText together with the image at imagePath.
// A missing or unreadable image downgrades the request to text-only,
// with the failure surfaced to the model as the IMAGE DATA comment.
func (a *Assessor) Assess(ctx context.Context, locationText, imagePath string) model.Assessment {
	comment, image := a.prepareImage(imagePath)

	prompt := fmt.Sprintf(promptPreamble, locationText, comment)
	switch a.variant {
	case model.VariantKeywords:
		prompt += keywordsPromptTail
	default:
		prompt += verdictPromptTail
	}

	raw, err := a.provider.GenerateVision(ctx, "assess", prompt, image)
	if err != nil {
		slog.Warn("Assessor: generation failed", "error", err)
		return a.fallback()
	}

	return a.parse(raw)
}

// prepareImage loads and normalizes the image for the vision request.
// The returned comment is always non-empty and goes into the prompt.
func (a *Assessor) prepareImage(imagePath string) (string, *llm.ImagePart) {
	data, mimeType, err := imageutil.PrepareForLLM(imagePath)
	switch {
	case err == nil:
		return "Analyze the image to identify potential safety concerns or suspicious activity.",
			&llm.ImagePart{Data: data, MIMEType: mimeType}
	case errors.Is(err, os.ErrNotExist):
		slog.Warn("Assessor: image not found, proceeding text-only", "path", imagePath)
		return fmt.Sprintf("Image not found at %s", imagePath), nil
	default:
		slog.Warn("Assessor: image unusable, proceeding text-only", "path", imagePath, "error", err)
		return fmt.Sprintf("Error opening image: %v", err), nil
	}
}

func (a *Assessor) parse(raw string) model.Assessment {
	res := extract.Object(raw)
	if !res.OK {
		slog.Warn("Assessor: response is not valid JSON", "reason", res.Reason)
		return a.fallback()
	}

	out := model.Assessment{
		Variant: a.variant,
		Summary: res.String("summary", ""),
	}
	if a.variant == model.VariantKeywords {
		out.Keywords = res.StringList("words")
	} else {
		out.Verdict = model.Verdict(res.String("safe_or_danger", string(model.VerdictError)))
	}
	return out
}

// fallback is the assessment returned when no structured answer could
// be obtained. The verdict reads "Error" so downstream consumers can
// surface the degraded state.
func (a *Assessor) fallback() model.Assessment {
	out := model.Assessment{
		Variant: a.variant,
		Summary: ParseFailureSummary,
	}
	if a.variant != model.VariantKeywords {
		out.Verdict = model.VerdictError
	}
	return out
}
