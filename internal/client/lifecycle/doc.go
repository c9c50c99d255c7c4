// Package lifecycle resolves which draft a multi-page form page is editing.
//
// Given the form identity, the page number and an optional draft id from the
// route, the Controller resumes an existing draft, creates a new one on the
// first page, or redirects later pages that have no draft back to page 1.
package lifecycle
