package schema

// RaceOther is the race sentinel that switches the projection to CustomRace.
const RaceOther = "Lainnya..."

var RaceOptions = []string{
	"Indonesia",
	"Indonesia-Jawa",
	"Indonesia-Sunda",
	"Indonesia-Minang",
	"Indonesia-Batak",
	"Indonesia-Padang",
	"Indonesia-Melayu",
	"Indonesia-Bugis",
	"Indonesia-Dayak",
	"Indonesia-Asmat",
	"Asia Tenggara",
	"Asia Timur",
	"Asia Selatan",
	"Timur Tengah",
	"Arab",
	"Afrika",
	"Eropa",
	"Hispanik/Latin",
	"Pribumi Amerika",
	RaceOther,
}

const (
	GenderMale      = "Pria"
	GenderFemale    = "Wanita"
	GenderNonBinary = "Non-Biner"
)

var GenderOptions = []string{GenderMale, GenderFemale, GenderNonBinary}

var VoiceOptions = []string{"Alto", "Bass", "Baritone", "Contralto", "Mezzo-soprano", "Soprano", "Tenor", "Serak", "Lembut", "Jernih", "Robotik"}

// Option is a select value with its Indonesian help text.
type Option struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

var LightingOptions = []Option{
	{Value: "cinematic lighting", Description: "Pencahayaan dramatis seperti di film, kontras tinggi."},
	{Value: "natural light", Description: "Cahaya alami dari matahari atau bulan."},
	{Value: "soft light", Description: "Cahaya lembut dengan bayangan halus, cocok untuk potret."},
	{Value: "dramatic lighting", Description: "Kontras tajam antara area terang dan gelap."},
	{Value: "studio lighting", Description: "Pencahayaan terkontrol seperti di studio foto."},
	{Value: "golden hour", Description: "Cahaya hangat dan keemasan saat matahari terbit/terbenam."},
	{Value: "blue hour", Description: "Cahaya biru sejuk setelah matahari terbenam/sebelum terbit."},
	{Value: "neon lighting", Description: "Pencahayaan dari lampu neon berwarna-warni."},
	{Value: "low-key lighting", Description: "Didominasi bayangan dan area gelap, menciptakan misteri."},
	{Value: "high-key lighting", Description: "Sangat terang dengan sedikit bayangan, menciptakan suasana ceria."},
}

var CameraAngleOptions = []Option{
	{Value: "eye-level shot", Description: "Kamera sejajar dengan mata subjek, sudut pandang normal."},
	{Value: "low angle shot", Description: "Kamera lebih rendah dari subjek, membuatnya terlihat kuat/dominan."},
	{Value: "high angle shot", Description: "Kamera lebih tinggi dari subjek, membuatnya terlihat lemah/rentan."},
	{Value: "dutch angle/tilt", Description: "Kamera miring, menciptakan ketegangan atau disorientasi."},
	{Value: "bird's-eye view", Description: "Tampilan dari atas langsung, seperti mata burung."},
	{Value: "worm's-eye view", Description: "Tampilan dari bawah sekali, seperti mata cacing."},
	{Value: "over-the-shoulder shot", Description: "Pengambilan gambar dari belakang bahu satu karakter, fokus pada karakter lain."},
}

var ShotTypeOptions = []Option{
	{Value: "wide shot", Description: "Menampilkan subjek sepenuhnya dalam lingkungannya."},
	{Value: "long shot", Description: "Subjek terlihat dari kepala hingga kaki, lingkungan masih dominan."},
	{Value: "full shot", Description: "Bingkai pas dengan subjek dari kepala hingga kaki."},
	{Value: "medium shot", Description: "Menampilkan subjek dari pinggang ke atas."},
	{Value: "close-up shot", Description: "Menampilkan wajah subjek untuk menekankan emosi."},
	{Value: "extreme close-up", Description: "Fokus pada detail kecil, seperti mata atau bibir."},
	{Value: "establishing shot", Description: "Biasanya wide shot di awal adegan untuk menunjukkan lokasi."},
	{Value: "point of view (POV) shot", Description: "Menampilkan adegan dari sudut pandang karakter."},
	{Value: "tracking shot", Description: "Kamera bergerak mengikuti subjek yang bergerak."},
	{Value: "dolly zoom", Description: "Efek vertigo, latar belakang berubah sementara subjek tetap."},
	{Value: "handheld shot", Description: "Kamera dipegang tangan, menciptakan kesan realistis/goyah."},
}

// Options is the payload served to the form for rendering its selects.
type Options struct {
	Races        []string `json:"races"`
	Genders      []string `json:"genders"`
	Voices       []string `json:"voices"`
	Lighting     []Option `json:"lighting"`
	CameraAngles []Option `json:"camera_angles"`
	ShotTypes    []Option `json:"shot_types"`
}

func AllOptions() Options {
	return Options{
		Races:        RaceOptions,
		Genders:      GenderOptions,
		Voices:       VoiceOptions,
		Lighting:     LightingOptions,
		CameraAngles: CameraAngleOptions,
		ShotTypes:    ShotTypeOptions,
	}
}

// AnalyzableRaces lists the races a vision model may pick from; the sentinel is excluded.
func AnalyzableRaces() []string {
	out := make([]string, 0, len(RaceOptions)-1)
	for _, r := range RaceOptions {
		if r != RaceOther {
			out = append(out, r)
		}
	}
	return out
}
