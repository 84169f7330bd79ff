// Package config provides configuration parsing for cv projects.
//
// The configuration is stored in cv.json at the project root. Every field
// has a default, and CV_* environment variables override the file.
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "page": "index.html",
//	  "modules": {
//	    "dir": "modules",
//	    "s3": {
//	      "bucket": "shop-components",
//	      "prefix": "v2/",
//	      "region": "eu-west-1"
//	    }
//	  },
//	  "engine": {
//	    "strict": false,
//	    "logLevel": "info"
//	  },
//	  "preview": {
//	    "port": 4000,
//	    "host": "localhost"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "cv"
//	  }
//	}
//
// # Environment
//
//	CV_PAGE, CV_MODULES_DIR, CV_S3_BUCKET, CV_S3_PREFIX, CV_S3_REGION,
//	CV_STRICT, CV_LOG_LEVEL, CV_PREVIEW_HOST, CV_PREVIEW_PORT,
//	CV_METRICS, CV_METRICS_NAMESPACE
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Preview:", cfg.PreviewURL())
package config
