// Package storage keeps pipeline reports in an object store.
//
// Backend is a small key/value interface. Two implementations register
// themselves on import: storage/local keeps files under a directory
// (data/outputs by default) and storage/s3 talks to Amazon S3 or any
// S3-compatible service.
//
//	storage:
//	  backend: s3
//	  s3:
//	    bucket: legal-reports
//	    prefix: reports/
//	    region: eu-west-3
//
// Reports sits on top of a Backend and names each report <stem>_report.json.
package storage
