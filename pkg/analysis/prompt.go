package analysis

import (
	"fmt"
	"strings"

	"veoprompt/pkg/schema"
)

const instructionTemplate = `PENTING: Respons Anda HARUS berupa objek JSON tunggal yang valid, tanpa markdown (` + "```json" + `) atau teks penjelasan lainnya.

Anda adalah asisten ahli analisis visual. Berdasarkan gambar yang diberikan, ekstrak informasi berikut dan kembalikan sebagai JSON. Semua nilai harus dalam Bahasa Indonesia.
- race: Pilih SATU dari daftar ini: %s. Jika tidak ada yang cocok, pilih yang paling mendekati.
- gender: Pilih SATU dari daftar ini: %s.
- age: Perkirakan usia sebagai string angka (contoh: "32").
- outfit: Deskripsikan pakaian yang dikenakan secara detail.
- hairstyle: Deskripsikan gaya rambut secara detail.
- description: Tulis deskripsi singkat satu kalimat tentang penampilan umum, ekspresi, atau tindakan orang dalam gambar.`

var instruction = fmt.Sprintf(instructionTemplate,
	strings.Join(schema.AnalyzableRaces(), ", "),
	strings.Join(schema.GenderOptions, ", "),
)

// Instruction is the fixed Indonesian instruction sent with every image.
func Instruction() string {
	return instruction
}
