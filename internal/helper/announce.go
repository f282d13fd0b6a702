package helper

import (
	"fmt"
	"strconv"
	"strings"
)

// AnnouncementPaths returns the audio clips the display plays when a
// ticket is called: chime, "nomor antrian", the spelled ticket code, then
// "silakan ke loket".
func AnnouncementPaths(queueCode string) []string {
	paths := []string{
		"audio/ting.mp3",
		"audio/nomor_antrian.mp3",
	}
	paths = append(paths, parseTicketCode(queueCode)...)
	return append(paths, "audio/ke_loket.mp3")
}

func parseTicketCode(code string) []string {
	var letters, numbers string

	for _, c := range code {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
			letters += string(c)
		case c >= '0' && c <= '9':
			numbers += string(c)
		}
	}

	var paths []string
	for _, c := range strings.ToLower(letters) {
		paths = append(paths, fmt.Sprintf("audio/%c.mp3", c))
	}
	if numbers != "" {
		if n, err := strconv.Atoi(numbers); err == nil {
			paths = append(paths, numberToAudio(n)...)
		}
	}
	return paths
}

func numberToAudio(num int) []string {
	if num == 0 {
		return []string{"audio/nol.mp3"}
	}

	ones := []string{
		"", "satu", "dua", "tiga", "empat",
		"lima", "enam", "tujuh", "delapan", "sembilan",
	}

	switch {
	case num < 10:
		return []string{fmt.Sprintf("audio/%s.mp3", ones[num])}
	case num == 10:
		return []string{"audio/sepuluh.mp3"}
	case num == 11:
		return []string{"audio/sebelas.mp3"}
	case num < 20:
		return []string{fmt.Sprintf("audio/%s.mp3", ones[num-10]), "audio/belas.mp3"}
	case num < 100:
		res := []string{fmt.Sprintf("audio/%s.mp3", ones[num/10]), "audio/puluh.mp3"}
		if num%10 > 0 {
			res = append(res, fmt.Sprintf("audio/%s.mp3", ones[num%10]))
		}
		return res
	case num == 100:
		return []string{"audio/seratus.mp3"}
	case num < 200:
		return append([]string{"audio/seratus.mp3"}, numberToAudio(num-100)...)
	case num < 1000:
		res := []string{fmt.Sprintf("audio/%s.mp3", ones[num/100]), "audio/ratus.mp3"}
		if num%100 > 0 {
			res = append(res, numberToAudio(num%100)...)
		}
		return res
	case num == 1000:
		return []string{"audio/seribu.mp3"}
	}
	return nil
}
