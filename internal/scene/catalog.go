package scene

import "fmt"

// Built-in catalog of prompt styles and scene structures for vertical 9:16
// UGC campaigns. Scene copy is intentionally bilingual to match the product
// audience.

var promptStyles = []PromptStyle{
	{
		ID:             "studio-premium",
		Name:           "Studio Premium",
		Description:    "Clean, high-end look dengan pencahayaan profesional.",
		Background:     "premium daylight studio with soft gradients and subtle reflections",
		VisualTone:     "Gunakan pencahayaan dramatis namun seimbang, detail tajam 4K, warna natural yang kaya, gaya foto katalog modern.",
		VideoMood:      "Gerakan kamera slider halus dengan sedikit efek bloom untuk menonjolkan kualitas premium produk.",
		PromptSuffix:   "Shot on professional mirrorless camera, 85mm lens, ultra sharp focus.",
		NegativePrompt: "grainy texture, low quality, distorted proportions, cluttered background",
	},
	{
		ID:             "lifestyle-natural",
		Name:           "Lifestyle Natural",
		Description:    "Nuansa candid hangat di apartemen modern.",
		Background:     "sunlit urban apartment interior with indoor plants and warm wooden textures",
		VisualTone:     "Tampilkan suasana cozy, candid, dan autentik layaknya konten kreator lifestyle, tone warna hangat dan lembut.",
		VideoMood:      "Gerakan handheld ringan dengan fokus pada ekspresi natural serta interaksi manusiawi.",
		PromptSuffix:   "Soft daylight photography, shallow depth of field, handheld documentary look.",
		NegativePrompt: "studio backdrop, harsh flash, cold tone, stiff pose",
	},
	{
		ID:             "creator-desk",
		Name:           "Creator Desk",
		Description:    "Meja kreator minimalis untuk produk tech & tools.",
		Background:     "minimal creator workspace desk with soft top-light and organized accessories",
		VisualTone:     "Fokus pada estetika produktif, komposisi rapi, dan nuansa tech-savvy yang bersih dan modern.",
		VideoMood:      "Gerakan kamera top-down atau orbit halus menyorot detail fitur produk di meja kerja.",
		PromptSuffix:   "High contrast softbox lighting, cinematic color grading, productivity vlog style.",
		NegativePrompt: "messy desk, low resolution, neon lighting, overexposed highlights",
	},
}

const noTextReminder = "PENTING: Tidak boleh ada teks, logo, atau watermark apa pun."

var structures = []Structure{
	{
		ID:          "product-showcase",
		Name:        "Product Showcase",
		Description: "Tiga angle produk dan satu shot model untuk kampanye vertikal 9:16.",
		Scenes: []Template{
			{
				Title:       "Hero Produk",
				Description: "Shot utama produk berdiri sendiri",
				ImagePrompt: func(style PromptStyle, productName, brief string) string {
					return fmt.Sprintf(
						"Ultra-detailed hero shot of %q displayed on a pedestal dengan pencahayaan premium di dalam %s. %s %s. %s %s",
						productName, style.Background, style.VisualTone, brief, style.PromptSuffix, noTextReminder,
					)
				},
				VideoPromptSuggestion: func(productName, _ string, style PromptStyle) string {
					return fmt.Sprintf("Mulai dengan slow push-in ke %q sambil menambahkan glow halus di sekelilingnya. %s", productName, style.VideoMood)
				},
				RequiredParts: []Part{PartProduct},
			},
			{
				Title:       "Detail Tekstur",
				Description: "Close-up untuk menonjolkan material",
				ImagePrompt: func(style PromptStyle, productName, brief string) string {
					return fmt.Sprintf(
						"Extreme macro close-up of %q highlighting the craftsmanship, texture, and material quality. Background should stay softly blurred within a %s palette. %s %s. %s Aspect ratio 9:16. %s",
						productName, style.Background, style.VisualTone, brief, style.PromptSuffix, noTextReminder,
					)
				},
				VideoPromptSuggestion: func(productName, _ string, style PromptStyle) string {
					return fmt.Sprintf("Animasi pan perlahan menyapu permukaan %q memperlihatkan detailnya. %s", productName, style.VideoMood)
				},
				RequiredParts: []Part{PartProduct},
			},
			{
				Title:       "Produk Dalam Konteks",
				Description: "Produk saat digunakan atau ditempatkan",
				ImagePrompt: func(style PromptStyle, productName, brief string) string {
					return fmt.Sprintf(
						"Lifestyle composition showing %q arranged naturally within a %s. Sertakan properti pendukung yang relevan namun tetap membuat produk sebagai fokus utama. %s %s. %s Aspect ratio 9:16. %s",
						productName, style.Background, style.VisualTone, brief, style.PromptSuffix, noTextReminder,
					)
				},
				VideoPromptSuggestion: func(productName, _ string, style PromptStyle) string {
					return fmt.Sprintf("Buat efek parallax ringan pada latar sementara produk tetap tajam di tengah. %s", style.VideoMood)
				},
				RequiredParts: []Part{PartProduct},
			},
			{
				Title:       "Model Dengan Produk",
				Description: "Model yang berinteraksi dengan produk",
				ImagePrompt: func(style PromptStyle, productName, brief string) string {
					return fmt.Sprintf(
						"Authentic portrait of a model happily interacting with %q inside a %s. Tunjukkan ekspresi natural dan pencahayaan yang konsisten dengan tiga gambar sebelumnya. %s %s. %s Aspect ratio 9:16. %s",
						productName, style.Background, style.VisualTone, brief, style.PromptSuffix, noTextReminder,
					)
				},
				VideoPromptSuggestion: func(productName, _ string, style PromptStyle) string {
					return fmt.Sprintf("Tambahkan gerakan kamera lembut mengikuti gestur model saat menunjukkan %q. %s", productName, style.VideoMood)
				},
				RequiredParts: []Part{PartProduct, PartModel},
			},
		},
	},
}

// Styles returns the built-in prompt styles.
func Styles() []PromptStyle {
	out := make([]PromptStyle, len(promptStyles))
	copy(out, promptStyles)
	return out
}

// FindStyle looks up a prompt style by ID. Empty or unknown ids fall back
// to the first style so a session always has a usable style.
func FindStyle(id string) PromptStyle {
	for _, s := range promptStyles {
		if s.ID == id {
			return s
		}
	}
	return promptStyles[0]
}

// Structures returns the built-in scene structures.
func Structures() []Structure {
	out := make([]Structure, len(structures))
	copy(out, structures)
	return out
}

// FindStructure looks up a structure by ID. Empty or unknown ids fall back
// to the first structure so a session always has a usable structure.
func FindStructure(id string) Structure {
	for _, s := range structures {
		if s.ID == id {
			return s
		}
	}
	return structures[0]
}
