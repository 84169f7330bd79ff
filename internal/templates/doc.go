// Package templates provides project scaffolding templates.
//
// # Available Templates
//
//   - minimal: one page and one markup module
//   - slots: a layout module with named slots
//   - s3: local modules with an S3 bucket as fallback
//
// # Usage
//
//	tmpl, err := templates.Get("minimal")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, templates.Config{ProjectName: "site"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Templates support variable substitution:
//
//	{{.ProjectName}}  - Name of the project
//	{{.Bucket}}       - S3 bucket (s3 template)
//	{{.Prefix}}       - S3 key prefix (s3 template)
//	{{.Region}}       - AWS region (s3 template)
package templates
