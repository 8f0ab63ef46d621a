package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"go-jobsearch-automation/internal/scraper"
)

// Documents is what comes back from the document side: an opaque bundle the
// scraping pipeline stores or forwards without inspecting.
type Documents struct {
	CoverLetter string          `json:"cover_letter"`
	ResumeJSON  json.RawMessage `json:"resume_json"`
}

// DocumentGenerator turns a scraped posting into application documents. The
// pipeline treats it as a collaborator: postings go in, documents or an
// error come out, and a failure never aborts the scraping run.
type DocumentGenerator interface {
	Generate(ctx context.Context, baseResumeJSON string, posting *scraper.JobPosting) (*Documents, error)
}

// buildSystemPrompt creates the system instruction for the AI model
func buildSystemPrompt() string {
	return `You are an expert ATS-friendly resume writer.
I will provide you with my base master resume in JSON format and a scraped job posting.

Task:
1. Keep the resume JSON structure EXACTLY the same. Key names must not change. Keep company names, durations, education, and certifications exactly as they are.
2. ADAPT THE JOB TITLE in personal_information to match the target role.
3. AGGRESSIVE FILTERING: remove skills and projects that do NOT align with the posting.
4. REWRITE EXPERIENCES: shift the summary and responsibility bullet points towards the required tech stack and keywords. Do not make up fake experience.
5. Write a short cover letter addressed to the hiring company.
6. Return ONLY a raw JSON object of the form {"cover_letter": "...", "resume_json": {...}} with no markdown wrappers.`
}

// buildUserPrompt renders the posting for the model.
func buildUserPrompt(baseResumeJSON string, posting *scraper.JobPosting) string {
	return fmt.Sprintf(
		"Base Resume (JSON):\n%s\n\nJob Posting:\nTitle: %s\nCompany: %s\nLocation: %s\nSeniority: %s\n\nDescription:\n%s",
		baseResumeJSON, posting.Title, posting.Company, posting.Location, posting.SeniorityLevel, posting.Description)
}
