package region

import "sort"

// PublicFuneralOrdinance lists regions with a public funeral support
// ordinance on record. Seoul appears at district level only.
var PublicFuneralOrdinance = []string{
	"서울특별시 강남구",
	"서울특별시 관악구",
	"서울특별시 금천구",
	"서울특별시 동작구",
	"서울특별시 서대문구",
	"서울특별시 송파구",
	"인천광역시 서구",
	"인천광역시 부평구",
	"경기도 수원시",
	"경기도 성남시",
	"경기도 부천시",
	"경기도 화성시",
	"광주광역시",
	"대전광역시 서구",
	"부산광역시",
	"전라북도 전주시",
	"충청남도 천안시",
	"제주특별자치도",
}

// CremationDetail lists regions whose cremation subsidy ordinance has
// itemized support amounts.
var CremationDetail = []string{
	"강원도 고성군",
	"강원도 양양군",
	"강원도 횡성군",
	"경기도 가평군",
	"경기도 양평군",
	"경상북도 울진군",
	"경상북도 의성군",
	"전라남도 해남군",
	"전라남도 강진군",
	"충청북도 옥천군",
	"충청남도 부여군",
}

// CremationEtcetera lists the remaining cremation subsidy regions.
var CremationEtcetera = []string{
	"강원도 인제군",
	"경상남도 함양군",
	"전라북도 순창군",
	"충청북도 괴산군",
	"경상북도 봉화군",
}

// FacilityGroups maps each funeral facility kind to the regions that
// operate one.
var FacilityGroups = map[string][]string{
	"장례식장": {
		"경기도 수원시",
		"경기도 성남시",
		"경기도 의왕시",
		"경기도 안양시",
		"경기도 군포시",
		"서울특별시 서초구",
		"대구광역시 남구",
		"경상북도 경주시",
	},
	"화장시설": {
		"경기도 수원시",
		"경기도 성남시",
		"경상남도 양산시",
		"경상남도 밀양시",
		"부산광역시 금정구",
		"대전광역시 유성구",
	},
	"봉안시설": {
		"경기도 의왕시",
		"경기도 파주시",
		"대구광역시 남구",
		"경상북도 경주시",
		"충청남도 천안시",
	},
	"자연장지": {
		"경기도 파주시",
		"경기도 양평군",
		"전라남도 장흥군",
		"경상남도 양산시",
	},
}

// AllFacilityRegions returns the sorted union of every facility
// group's regions.
func AllFacilityRegions() []string {
	seen := make(map[string]struct{})
	for _, list := range FacilityGroups {
		for _, r := range list {
			seen[r] = struct{}{}
		}
	}
	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
