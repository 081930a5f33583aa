package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS        = ""               // e.g. "example.com,example2.com"
	MYSQL_DSN          = ""               // MySQL will be used if this is set
	SQLITE_FILE        = "predictions.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS       = "0.0.0.0:8080"
	TMP_DIR            = "/tmp"      // Local scratch space for S3-backed buckets
	DEFAULT_BUCKET_DIR = "./uploads" // Used for creating the initial bucket
	DEBUG_MODE         = true
	DETECTOR_SCRIPT    = "./scripts/detect.py" // Long-running YOLO helper
	DETECTOR_IDLE_SECS = 60                    // Stop the helper after this much idle time
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("DETECTOR_SCRIPT", &DETECTOR_SCRIPT)
	readEnvInt("DETECTOR_IDLE_SECS", &DETECTOR_IDLE_SECS)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
