// Package generation turns uploaded source documents into publishable CMS
// drafts through a three stage pipeline: parse extracts plain text from the
// document, draft produces a structured article via the LLM, and polish
// refines it. Polish failures are recoverable; the item completes with the
// unpolished draft.
package generation
