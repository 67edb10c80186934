// Package model defines the flat Trade record used by both ingestion paths and generates synthetic batches of them.
package model
