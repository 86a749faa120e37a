package usecase

import (
	"time"

	"github.com/leadflow/crm-directory/internal/entity"
)

const SampleImportSource = "Excel Import"

var sampleImportRecords = []struct {
	name, phone, region string
}{
	{"Zhang Wei", "13800138001", "Beijing"},
	{"Wang Fang", "13800138002", "Shanghai"},
	{"Li Na", "13800138003", "Guangdong-Shenzhen"},
	{"Liu Qiang", "13800138004", "Zhejiang-Hangzhou"},
	{"Chen Jie", "13800138005", "Jiangsu-Nanjing"},
	{"Yang Min", "13800138006", "Sichuan-Chengdu"},
	{"Zhao Lei", "13800138007", "Hubei-Wuhan"},
	{"Huang Ting", "13800138008", "Hunan-Changsha"},
	{"Zhou Yang", "13800138009", "Chongqing"},
	{"Xu Jing", "13800138010", "Fujian-Xiamen"},
}

// SampleImportBatch returns the canned import batch. Spreadsheet parsing
// is out of scope; this stands in for an uploaded file.
func SampleImportBatch(at time.Time) []entity.LeadPatch {
	batch := "IMPORT_" + at.Format("2006-01-02")
	out := make([]entity.LeadPatch, 0, len(sampleImportRecords))
	for _, r := range sampleImportRecords {
		out = append(out, entity.LeadPatch{
			Name:    r.name,
			Phone:   r.phone,
			Region:  r.region,
			Source:  SampleImportSource,
			BatchID: batch,
		})
	}
	return out
}
