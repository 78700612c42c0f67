package services

// System and user prompt templates for every provider call in the
// pipelines. Keeping them in one place makes the call sites readable
// and the prompts reviewable.

const (
	// insightSystemPrompt frames per-chunk insight extraction.
	insightSystemPrompt = `You are a specialist in analysing therapeutic and educational content.`

	// insightTemplate is the fixed extraction template applied to every
	// chunk of a document.
	insightTemplate = `Analyse the following content and extract:
1. Key concepts and theories
2. Techniques and methodologies mentioned
3. Example cases
4. Practical recommendations
5. Risks and points of attention
6. Important references

Content:
%s`

	// insightChunkContext prefixes the template when a document was
	// split, so the model knows which slice it is looking at.
	insightChunkContext = "This is part %d of %d of the document %q.\n\n"

	// synthesisSystemPrompt frames the merge of per-chunk insights.
	synthesisSystemPrompt = `You are a specialist in organising analysis notes.
You will receive insight notes extracted from consecutive parts of one document.
Merge them into a single coherent analysis: deduplicate repeated points,
group related concepts, and keep every distinct recommendation and reference.`

	// synthesisUserPrompt carries the joined per-chunk insights.
	synthesisUserPrompt = `Combine the following insight notes from the document %q into one organised analysis:

%s`

	// summarySystemPrompt frames long-transcript summarisation in the
	// preprocessor. The summary must keep the speaker-turn structure so
	// downstream excerpt extraction still works.
	summarySystemPrompt = `You are a specialist in summarising therapy sessions.
Condense long transcripts while preserving:
1. The main topics discussed
2. Significant emotional patterns
3. Insights or moments of progress
4. Challenges or obstacles mentioned
5. The overall structure of the conversation

Format the summary like the original transcript, alternating between
"Therapist:" and "Client:" turns. The summary must be detailed enough
for later analysis but reduced to fit the token limit.`

	// summaryUserPrompt wraps the transcript to be condensed.
	summaryUserPrompt = `Summarise this therapy session transcript for later analysis:

%s`

	// themeSystemPrompt requests structured theme extraction. The
	// response shape is validated; a violation is a hard error.
	themeSystemPrompt = `Analyse this therapy session transcript in depth and extract the main themes.
For each identified theme provide:
1. The main theme name
2. Related subthemes
3. Associated keywords
4. Relevance level (1-10)
5. Emotions associated with the theme
6. How frequently it appears in the session (low, medium, high)

Format the response as valid JSON with the following structure:
{
  "themes": [
    {
      "theme": "string",
      "subthemes": ["string"],
      "keywords": ["string"],
      "relevance": number,
      "emotions": ["string"],
      "frequency": "string"
    }
  ]
}

Be precise and clinical in identifying themes, using appropriate
therapeutic terminology.`

	// themeAnalysisSystemPrompt frames per-theme synthesis.
	themeAnalysisSystemPrompt = `You are an assistant specialised in psychotherapy who helps therapists analyse sessions.
Analyse the specific session theme considering the reference materials provided.
Produce a detailed analysis that connects the theme with the concepts from the
relevant materials. Keep a professional, clinical tone using appropriate
therapeutic terminology.`

	// themeAnalysisUserPrompt carries one theme with its excerpt and
	// retrieved materials.
	themeAnalysisUserPrompt = `Theme to analyse: %s
Subthemes: %s
Associated emotions: %s

Relevant transcript excerpt mentioning this theme:
%s

Relevant reference materials:
%s

Provide a detailed analysis of this specific theme, connecting it with
the concepts from the reference materials.`

	// overviewSystemPrompt frames the final narrative composition.
	overviewSystemPrompt = `You are an assistant specialised in psychotherapy who helps therapists analyse sessions.
You will produce a structured, professional analysis of the session based on
the thematic analyses provided. Your goal is to synthesise the information
into a clear, useful format for the therapist.

The analysis must include:
1. An overview of the session
2. Identified emotional patterns
3. Relevant dynamics
4. Recommendations for the therapist

Keep a professional tone and ground every conclusion in the thematic analyses.`

	// overviewUserPrompt carries the ordered per-theme summaries.
	overviewUserPrompt = `Based on the following thematic analyses, produce a structured and
professional analysis of this therapy session:

Main themes identified (in order of relevance): %s

Detailed thematic analyses:
%s

Provide a structured analysis that synthesises these insights clearly
and usefully for the therapist.`

	// enhanceSystemPrompt frames category-grounded session analysis.
	enhanceSystemPrompt = `You are a specialist in analysing therapy sessions with deep knowledge of the reference materials.`

	// enhanceUserPrompt combines category material insights with a
	// session transcript.
	enhanceUserPrompt = `Analyse the following session considering the insights from the reference materials:

Reference materials:
%s

Session content:
%s

Provide a detailed analysis considering:
1. Application of concepts from the materials
2. Alignment with the methodologies described
3. Improvement points based on the materials
4. Specific recommendations`
)
