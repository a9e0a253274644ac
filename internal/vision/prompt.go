package vision

import "fmt"

// The grading rubric is fixed: the service's judgment lives in the external
// model, and these instructions pin the contract it must answer within.
const rubric = `You are a laptop condition assessor. Examine the supplied photo(s) of a laptop
and assign a condition grade:

A = Excellent: no functional damage, at most trivial signs of use
B = Good: fully functional, minor cosmetic wear (light scratches, small scuffs)
C = Fair: moderate wear or minor functional issues (dents, worn keys, hinge play)
D = Poor: major damage or functional concerns (cracked screen, broken ports, missing parts)

Respond with a single JSON object and nothing else, in exactly this shape:
{
  "grade": "A" | "B" | "C" | "D",
  "confidence": <number between 0 and 1>,
  "overall_condition": "<one-sentence summary>",
  "damage_types": ["<short damage label>", ...],
  "detailed_findings": [
    {"category": "<device area>", "severity": "Low" | "Medium" | "High", "description": "<what you observed>"}
  ]
}`

const multiImageInstruction = `

You were given %d photos of the same device from different angles. Before
settling on the aggregate grade, consider each photo in turn and reflect any
per-photo damage in detailed_findings; the grade and confidence must describe
the device as a whole.`

const videoFrameInstruction = `

The image is a single frame extracted from a video of the device. You are
seeing one angle at one moment, so be conservative: note in overall_condition
that the assessment is based on limited video coverage, and lower confidence
accordingly.`

// buildPrompt assembles the instruction for an image assessment.
func buildPrompt(imageCount int) string {
	if imageCount > 1 {
		return rubric + fmt.Sprintf(multiImageInstruction, imageCount)
	}
	return rubric
}

// buildVideoPrompt assembles the instruction for a video-derived assessment.
func buildVideoPrompt() string {
	return rubric + videoFrameInstruction
}
