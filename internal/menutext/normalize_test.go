package menutext

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"배배추김치", "배추김치"},
		{"추김치", "배추김치"},
		{"배추김치", "배추김치"},
		{"포기 추김치", "포기 배추김치"},
		{"달갈장", "달걀장"},
		{"그린샐러드드레싱", "그린샐러드&드레싱"},
		{"얼큰얼큰콩나물국", "얼큰콩나물국"},
		{"콩나물국", "얼큰콩나물국"},
		{"얼큰 콩나물국", "얼큰 콩나물국"},
		{"콩나물국밥", "얼큰콩나물국밥"},
		{"실실곤약무침", "실곤약무침"},
		{"곤약무침", "실곤약무침"},
		{"장고추지", "간장고추지"},
		{"간간장고추지", "간장고추지"},
		{"육", "수육"},
		{"육 Ss", "수육"},
		{"  제육볶음 ", "제육볶음"},
		{"두부조림", "두부조림"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{"추김치", "콩나물국", "곤약무침 & 추김치", "장고추지", "육"} {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestRestore_MultipleOccurrences(t *testing.T) {
	got := restore("추김치/배추김치/추김치", Restoration{Dish: "추김치", Prefix: "배"})
	if want := "배추김치/배추김치/배추김치"; got != want {
		t.Errorf("restore = %q, want %q", got, want)
	}
}
