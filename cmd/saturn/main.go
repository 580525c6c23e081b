// Saturn is a declarative document transformation engine.
//
// It reworks JSON and YAML documents by example: the template is itself a
// document whose leaves name paths into the source, and whose decorated keys
// convert between nested objects and arrays.
//
// Usage:
//
//	# Transform a source document with a template
//	saturn transform order.json invoice.template.json
//
//	# Re-run automatically when either file changes
//	saturn transform order.json invoice.template.json --watch
//
//	# Validate template files
//	saturn lint --file invoice.template.json
//
//	# Start the HTTP transform service
//	saturn serve --config /etc/saturn/config.yaml
//
//	# Query past transform runs
//	saturn history --status error --limit 20
//
// For complete documentation, see: https://github.com/mercator-hq/saturn
package main

func main() {
	Execute()
}
