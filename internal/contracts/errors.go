package contracts

import "errors"

// ⭐ SSOT: 도메인 sentinel 에러
var (
	// ErrNotAvailable: 채점 대상이 없음 (빈 유니버스 또는 스냅샷 없음)
	ErrNotAvailable = errors.New("balanced risk score not available")
	// ErrNotFound: 저장소에 레코드 없음
	ErrNotFound = errors.New("not found")
	// ErrNoData: 데이터 소스가 해당 종목에 대해 아무 데이터도 주지 않음
	ErrNoData = errors.New("data source returned no data")
)
