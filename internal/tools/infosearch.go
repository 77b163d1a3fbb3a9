package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lifeclover-platform/lifeclover/internal/embeddings"
	"github.com/lifeclover-platform/lifeclover/internal/region"
	"github.com/lifeclover-platform/lifeclover/internal/vector"
)

// Collections searched by the information tools.
const (
	CollectionOrdinance         = "ordinance"
	CollectionFuneralFacilities = "funeral_facilities"
	CollectionDigitalLegacy     = "digital_legacy"
	CollectionLegacy            = "legacy"
)

const (
	noSearchResults      = "검색 결과가 없습니다."
	ordinanceSearchSize  = 3
	legacySearchSize     = 5
	facilitySearchBudget = 10
	facilityMatchLimit   = 100
)

type infoSearchHandler struct {
	embedder embeddings.Embedder
	index    vector.Index
}

// NewInfoSearchTools builds the information-mode search tools:
// ordinances, funeral facilities and legacy guidance.
func NewInfoSearchTools(embedder embeddings.Embedder, index vector.Index) []*Tool {
	h := &infoSearchHandler{embedder: embedder, index: index}

	return []*Tool{
		{
			Name:        "search_public_funeral_ordinance",
			Description: "공영장례 조례를 검색합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색어 (예: \"지원 대상\")",
					},
					"region": map[string]any{
						"type":        "string",
						"description": "지역명 (예: \"수원시\", \"서울특별시 강남구, 인천광역시 서구\")",
					},
				},
				"required": []string{"query"},
			},
			Handler: h.handlePublicFuneralOrdinance,
		},
		{
			Name: "search_cremation_subsidy_ordinance",
			Description: "화장 장려금 조례를 검색합니다. " +
				"제외 대상에 대한 정보가 말이 뒤죽박죽 되어 이해하기 어려울 경우 다음의 사항을 바탕으로 이해한다. " +
				"1.「장사 등에 관한 법률」 제7조 제2항을 위반한 경우 " +
				"2. 다른 법령에 따라 화장에 대한 지원금을 받은 경우",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색어 (예: \"지원 대상\")",
					},
					"region": map[string]any{
						"type":        "string",
						"description": "지역명 (예: \"강원도 고성군\", \"서울 강남\")",
					},
				},
				"required": []string{"query"},
			},
			Handler: h.handleCremationSubsidyOrdinance,
		},
		{
			Name:        "search_funeral_facilities",
			Description: "장례 시설을 검색합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색 문장 (예: \"경기도 수원시 시설 좋은 묘지\", \"대구 남구 천주교 납골당\")",
					},
					"region": map[string]any{
						"type":        "string",
						"description": "지역명, 지역 한 개 검색 시 사용 (예: \"경기도 성남시\")",
					},
					"regions": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "지역명, 지역 여러 개 검색 시 사용 (예: [\"경기도 의왕시\", \"경기도 안양시\"])",
					},
				},
				"required": []string{"query"},
			},
			Handler: h.handleFuneralFacilities,
		},
		{
			Name:        "search_digital_legacy",
			Description: "디지털 유산 정보를 검색합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색어 (예: \"카카오톡 탈퇴 시 삭제되는 데이터\", \"추모 프로필 주요 기능 요약\")",
					},
				},
				"required": []string{"query"},
			},
			Handler: h.handleDigitalLegacy,
		},
		{
			Name:        "search_legacy",
			Description: "유산과 관련된 정보를 검색합니다.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "검색어 (예: \"피상속인의 직계비속\", \"증여세 과세 대상\")",
					},
				},
				"required": []string{"query"},
			},
			Handler: h.handleLegacy,
		},
	}
}

// ordinanceFilter narrows an ordinance search to matched regions. A
// single match filters by equality, several by membership, none
// leaves the search unfiltered.
func ordinanceFilter(docType, regionName string, catalog []string) *vector.Filter {
	filter := &vector.Filter{Eq: map[string]string{"type": docType}}
	if regionName == "" {
		return filter
	}

	matched := region.Match(regionName, catalog, ordinanceSearchSize)
	switch len(matched) {
	case 0:
	case 1:
		filter.Eq["region"] = matched[0]
	default:
		filter.In = map[string][]string{"region": matched}
	}
	return filter
}

func (h *infoSearchHandler) search(ctx context.Context, collection, query string, k int, filter *vector.Filter) ([]vector.Document, error) {
	vec, err := h.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return h.index.Search(ctx, collection, vec, k, filter)
}

func (h *infoSearchHandler) handlePublicFuneralOrdinance(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}
	query := stringArg(args, "query", "")
	regionName := stringArg(args, "region", "")

	filter := ordinanceFilter("Public_Funeral_Ordinance", regionName, region.PublicFuneralOrdinance)
	docs, err := h.search(ctx, CollectionOrdinance, query, ordinanceSearchSize, filter)
	if err != nil {
		return "", err
	}
	return formatDocs(docs), nil
}

func (h *infoSearchHandler) handleCremationSubsidyOrdinance(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}
	query := stringArg(args, "query", "")
	regionName := stringArg(args, "region", "")

	catalog := append(append([]string{}, region.CremationDetail...), region.CremationEtcetera...)
	filter := ordinanceFilter("Cremation_Subsidy_Ordinance", regionName, catalog)
	docs, err := h.search(ctx, CollectionOrdinance, query, ordinanceSearchSize, filter)
	if err != nil {
		return "", err
	}
	return formatDocs(docs), nil
}

func (h *infoSearchHandler) handleFuneralFacilities(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}
	query := stringArg(args, "query", "")
	regionName := stringArg(args, "region", "")

	regionList, present := stringListArg(args, "regions")
	if !present {
		regionList = []string{regionName}
	}
	if len(regionList) == 0 {
		return "", fmt.Errorf("regions list is empty")
	}
	k := facilitySearchBudget / len(regionList)

	all := region.AllFacilityRegions()
	var merged []vector.Document
	for _, rgn := range regionList {
		var filter *vector.Filter
		if rgn != "" {
			matched := region.Match(rgn, all, facilityMatchLimit)
			switch len(matched) {
			case 0:
				// no match: search unfiltered rather than dropping the region
			case 1:
				filter = &vector.Filter{Eq: map[string]string{"region": matched[0]}}
			default:
				filter = &vector.Filter{In: map[string][]string{"region": matched}}
			}
		}

		docs, err := h.search(ctx, CollectionFuneralFacilities, query, k, filter)
		if err != nil {
			slog.Warn("facility search failed", "region", rgn, "error", err)
			continue
		}
		merged = append(merged, docs...)
	}

	// Merge regions, drop exact duplicates keeping first-seen order
	var unique []vector.Document
	seenContent := make(map[string]struct{})
	for _, doc := range merged {
		if _, dup := seenContent[doc.Content]; dup {
			continue
		}
		seenContent[doc.Content] = struct{}{}
		unique = append(unique, doc)
	}
	return formatDocs(unique), nil
}

func (h *infoSearchHandler) handleDigitalLegacy(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}
	docs, err := h.search(ctx, CollectionDigitalLegacy, stringArg(args, "query", ""), legacySearchSize, nil)
	if err != nil {
		return "", err
	}
	return formatDocs(docs), nil
}

func (h *infoSearchHandler) handleLegacy(ctx context.Context, args map[string]any) (string, error) {
	if h.embedder == nil || h.index == nil {
		return backendUnavailable, nil
	}
	docs, err := h.search(ctx, CollectionLegacy, stringArg(args, "query", ""), legacySearchSize, nil)
	if err != nil {
		return "", err
	}
	return formatDocs(docs), nil
}

// formatDocs renders search results as numbered text blocks for the
// model, with the region attached when the document carries one.
func formatDocs(docs []vector.Document) string {
	if len(docs) == 0 {
		return noSearchResults
	}

	var b strings.Builder
	for i, doc := range docs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, doc.Content)
		if rgn := metaString(doc.Metadata, "region"); rgn != "" {
			fmt.Fprintf(&b, "\n(지역: %s)", rgn)
		}
	}
	return b.String()
}
