package services

//go:generate mockgen -destination=mocks/mock_uploader.go -package=mocks volunteer-match-server/services MediaUploader,ReportArchiver
