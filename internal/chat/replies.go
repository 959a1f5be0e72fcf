package chat

import (
	"fmt"
	"strings"

	"github.com/apricodi/builder/internal/schema"
)

func companyName(c *schema.CompanyInfo) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Name)
}

func productReply(c *schema.CompanyInfo) string {
	var parts []string
	if c != nil && len(c.Products) > 0 {
		parts = append(parts, "Ürünlerimiz: "+strings.Join(c.Products, ", ")+".")
	}
	if c != nil && len(c.Services) > 0 {
		parts = append(parts, "Hizmetlerimiz: "+strings.Join(c.Services, ", ")+".")
	}
	if len(parts) == 0 {
		if c != nil && c.Description != "" {
			return c.Description + " Hangi konuda daha fazla bilgi almak istersiniz?"
		}
		return "Ürün ve hizmetlerimiz hakkında size yardımcı olabilirim. Hangi konuyla ilgileniyorsunuz?"
	}
	return strings.Join(parts, " ") + " Hangisi hakkında daha fazla bilgi almak istersiniz?"
}

func pricingReply(c *schema.CompanyInfo) string {
	reply := "Fiyatlarımız ihtiyacınıza göre belirlenir. Size özel bir teklif hazırlayabiliriz."
	if contact := contactLine(c); contact != "" {
		return reply + " Detaylı bilgi için bize ulaşabilirsiniz: " + contact
	}
	return reply + " Detaylı bilgi için iletişim formunu doldurabilirsiniz."
}

func contactReply(c *schema.CompanyInfo) string {
	var lines []string
	if c != nil {
		if c.Phone != "" {
			lines = append(lines, "Telefon: "+c.Phone)
		}
		if c.Email != "" {
			lines = append(lines, "E-posta: "+c.Email)
		}
		if c.Website != "" {
			lines = append(lines, "Web: "+c.Website)
		}
		if c.Address != "" {
			lines = append(lines, "Adres: "+c.Address)
		}
	}
	if len(lines) == 0 {
		return "Bizimle iletişime geçmek için sayfadaki iletişim formunu kullanabilirsiniz."
	}
	return "İletişim bilgilerimiz:\n" + strings.Join(lines, "\n")
}

func contactLine(c *schema.CompanyInfo) string {
	if c == nil {
		return ""
	}
	var items []string
	if c.Phone != "" {
		items = append(items, c.Phone)
	}
	if c.Email != "" {
		items = append(items, c.Email)
	}
	return strings.Join(items, " / ")
}

func demoReply(c *schema.CompanyInfo) string {
	if name := companyName(c); name != "" {
		return fmt.Sprintf("%s ürünlerini ücretsiz deneyebilirsiniz. Demo talebi için iletişim formunu doldurmanız yeterli; ekibimiz en kısa sürede size dönecek.", name)
	}
	return "Ücretsiz demo için iletişim formunu doldurmanız yeterli; ekibimiz en kısa sürede size dönecek."
}

func greetingReply(c *schema.CompanyInfo) string {
	if name := companyName(c); name != "" {
		return fmt.Sprintf("Merhaba! %s adına size nasıl yardımcı olabilirim?", name)
	}
	return "Merhaba! Size nasıl yardımcı olabilirim?"
}

func thanksReply(*schema.CompanyInfo) string {
	return "Rica ederim! Başka bir sorunuz olursa yardımcı olmaktan memnuniyet duyarım."
}

func fallbackReply(c *schema.CompanyInfo) string {
	if name := companyName(c); name != "" {
		return fmt.Sprintf("Sorunuzu tam anlayamadım. %s ürünleri, fiyatlandırma veya iletişim bilgileri hakkında biraz daha detay verebilir misiniz?", name)
	}
	return "Sorunuzu tam anlayamadım. Biraz daha detay verebilir misiniz?"
}
