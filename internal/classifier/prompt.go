package classifier

const instructions = `You are reviewing a photo of a bus shelter taken for a maintenance audit.

Decide whether the lights mounted in the shelter ceiling are turned on. Judge the
fixtures themselves: a lit fixture glows or casts light on the shelter surfaces
directly beneath it. Ignore street lights, vehicle headlights, advertising panels,
and reflections of sunlight. When the ceiling fixtures are not visible, answer from
the lighting of the shelter interior and lower your confidence accordingly.`

const responseSpec = `Respond with a JSON object matching this exact structure:

{
  "lightsOn": true,
  "confidence": 0.0,
  "explanation": "<brief reason>"
}

Field constraints:
- lightsOn: Whether the lights in the ceiling are turned on.
- confidence: Confidence level of the assessment, from 0.0 to 1.0.
- explanation: Brief reason for the assessment, one or two sentences.

Always respond with valid JSON only, no markdown fencing and no extra fields.`

// Prompt returns the fixed instruction sent with every image.
func Prompt() string {
	return instructions + "\n\n" + responseSpec
}
