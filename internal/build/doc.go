// Package build renders the complete site for one configuration.
//
// A build runs these stages in order, checking for cancellation between
// them:
//
//	discover_docs -> check_markdown_links -> render_home -> render_docs ->
//	copy_assets -> check_links -> publish
//
// Broken links are handled according to the configured policies; a throw
// policy with findings fails the build before anything is published.
package build
