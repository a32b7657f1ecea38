package answer

import (
	"fmt"
	"strings"

	"github.com/peroute/hackwest-project/internal/domain/candidate"
)

const welcomeAnswer = "Hello! I'm your campus assistant. Ask me where to find university " +
	"resources such as the library, dining, fitness, tutoring or career services, or ask me a " +
	"general study question and I'll do my best to help."

const noResourcesAnswer = "I couldn't find any relevant resources to answer your question. " +
	"Please try rephrasing your question or adding more resources to the database."

const resourcePromptHeader = "You are a helpful university assistant with access to a " +
	"comprehensive database of university resources.\n\n" +
	"The user will ask questions about university resources, services, or general information.\n" +
	"Use the following resources to provide accurate, helpful answers.\n" +
	"Always include relevant links in your response.\n" +
	"If the resources don't fully answer the question, say so and suggest how the user might " +
	"find more information.\n\n"

// resourcePrompt lists every candidate for the model, preceded by the conversation context.
func resourcePrompt(question string, candidates []candidate.Scored, history string) string {
	var b strings.Builder
	b.WriteString(resourcePromptHeader)
	if history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	b.WriteString("Available Resources:\n")
	for _, c := range candidates {
		r := c.Resource()
		desc := r.Description()
		if desc == "" {
			desc = "No description"
		}
		category := r.Category()
		if category == "" {
			category = "Uncategorized"
		}
		fmt.Fprintf(&b, "- **%s**: %s (Category: %s) - %s\n", r.Title(), desc, category, r.URL())
	}
	fmt.Fprintf(&b, "\nUser Question: %s\n\n", question)
	b.WriteString("Please provide a comprehensive, helpful answer based on the available resources.")
	return b.String()
}

// resourceList is the templated answer used when the model is not reachable.
func resourceList(candidates []candidate.Scored) string {
	var b strings.Builder
	b.WriteString("Based on your question, here are some relevant resources:\n\n")
	for i, c := range candidates {
		r := c.Resource()
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.Title())
		if r.Description() != "" {
			fmt.Fprintf(&b, "   %s\n", r.Description())
		}
		if r.Category() != "" {
			fmt.Fprintf(&b, "   Category: %s\n", r.Category())
		}
		fmt.Fprintf(&b, "   %s\n\n", r.URL())
	}
	return strings.TrimRight(b.String(), "\n")
}

func generalPrompt(question, history string) string {
	var b strings.Builder
	b.WriteString("You are a knowledgeable and friendly university tutor. ")
	b.WriteString("Answer the student's question clearly, with a short explanation and practical examples ")
	b.WriteString("where they help. Keep the answer focused and easy to read.\n\n")
	if history != "" {
		b.WriteString(history)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Student Question: %s\n", question)
	return b.String()
}

// topic is one canned educational answer selected by keyword.
type topic struct {
	keywords []string
	body     string
}

// Order matters: "time management" must win over "study" in "study time management".
var topics = []topic{
	{
		keywords: []string{"time management", "procrastinat", "schedule"},
		body: "Good time management is mostly about making your plan visible.\n\n" +
			"1. Write every deadline for the term into one calendar.\n" +
			"2. Break large assignments into tasks you can finish in under two hours.\n" +
			"3. Block fixed study periods in your week and treat them like classes.\n" +
			"4. Start each day by picking the two tasks that matter most.\n" +
			"5. Review the plan weekly and move what slipped instead of dropping it.\n\n" +
			"Your campus advising and tutoring centers can also help you build a semester plan.",
	},
	{
		keywords: []string{"exam", "test", "midterm", "finals"},
		body: "Preparing for an exam works best when it starts early and stays active.\n\n" +
			"1. Collect the syllabus topics and past problem sets into one checklist.\n" +
			"2. Test yourself with practice questions before rereading notes.\n" +
			"3. Space your review over several days rather than one long session.\n" +
			"4. Explain difficult ideas out loud or to a study partner.\n" +
			"5. Sleep well the night before; memory consolidates during sleep.\n\n" +
			"Check whether your department runs review sessions or office hours before the exam.",
	},
	{
		keywords: []string{"study", "studying", "learn"},
		body: "Effective studying relies on a few well-tested habits.\n\n" +
			"1. Use active recall: close the book and write down what you remember.\n" +
			"2. Use spaced repetition: revisit material after one day, three days and a week.\n" +
			"3. Mix related problem types in one session instead of drilling only one.\n" +
			"4. Study in focused blocks of 25 to 50 minutes with short breaks.\n" +
			"5. Remove distractions such as phone notifications while you work.\n\n" +
			"The library and tutoring center offer quiet rooms and study groups if you need them.",
	},
	{
		keywords: []string{"science", "math", "biology", "chemistry", "physics", "calculus", "algebra"},
		body: "Science and math courses reward steady practice over memorization.\n\n" +
			"1. Work problems by hand before looking at worked solutions.\n" +
			"2. For every formula, know what each symbol means and when it applies.\n" +
			"3. Draw diagrams to connect concepts to concrete situations.\n" +
			"4. When stuck, write down exactly which step fails and ask about that step.\n" +
			"5. Review mistakes; they show which ideas are not yet solid.\n\n" +
			"Tutoring services and instructor office hours are the fastest way past a blocking problem.",
	},
	{
		keywords: []string{"writing", "essay", "paper"},
		body: "Strong academic writing comes from a clear argument and several drafts.\n\n" +
			"1. State your main claim in one sentence before you start.\n" +
			"2. Outline the supporting points and the evidence for each.\n" +
			"3. Write a rough first draft without stopping to polish.\n" +
			"4. Revise for structure first, then for sentences and citations.\n" +
			"5. Read the final version aloud to catch awkward phrasing.\n\n" +
			"Most universities run a writing center that reviews drafts with students.",
	},
}

const genericGuidance = "That's a good question. While I can't give a detailed answer right now, " +
	"here is how to approach it.\n\n" +
	"1. Start from your course materials and lecture notes on the topic.\n" +
	"2. Look for an introductory explanation in a textbook or the library's databases.\n" +
	"3. Write down the specific part that is unclear and bring it to office hours.\n" +
	"4. Discuss it with classmates or a study group.\n\n" +
	"The library, tutoring center and academic advising office can all point you to further help."

// topicAnswer picks the canned answer for the first topic whose keyword appears in question.
func topicAnswer(question string) string {
	q := strings.ToLower(question)
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(q, kw) {
				return t.body
			}
		}
	}
	return genericGuidance
}
