package util

const TimeFormat = "2006-01-02 15:04:05"

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const SessionStoreRedis = "redis"

const MimePDF = "application/pdf"

const ReportFileName = "MockView_Report.pdf"
