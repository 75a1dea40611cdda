package usecase

import "testing"

func TestResolvePortion(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantMultiplier float64
		wantLabel      string
	}{
		{
			name:           "ounces convert at 4 oz per serving",
			text:           "8oz grilled chicken",
			wantMultiplier: 2.0,
			wantLabel:      "8 oz",
		},
		{
			name:           "ounces with space and full word",
			text:           "6 ounces of salmon",
			wantMultiplier: 1.5,
			wantLabel:      "6 oz",
		},
		{
			name:           "fractional ounces",
			text:           "2.5 oz cheese",
			wantMultiplier: 0.625,
			wantLabel:      "2.5 oz",
		},
		{
			name:           "numeric cups",
			text:           "2 cups of rice",
			wantMultiplier: 2.0,
			wantLabel:      "2 cup",
		},
		{
			name:           "half cup as fraction",
			text:           "1/2 cup oatmeal",
			wantMultiplier: 0.5,
			wantLabel:      "1/2 cup",
		},
		{
			name:           "half cup as word",
			text:           "half cup of quinoa",
			wantMultiplier: 0.5,
			wantLabel:      "1/2 cup",
		},
		{
			name:           "quarter cup",
			text:           "quarter cup of berries",
			wantMultiplier: 0.25,
			wantLabel:      "1/4 cup",
		},
		{
			name:           "grams convert at 100g per serving",
			text:           "250g of chicken",
			wantMultiplier: 2.5,
			wantLabel:      "250g",
		},
		{
			name:           "grams attached without space",
			text:           "150grams pasta",
			wantMultiplier: 1.5,
			wantLabel:      "150g",
		},
		{
			name:           "piece count",
			text:           "3 pieces of toast",
			wantMultiplier: 3.0,
			wantLabel:      "3 pieces",
		},
		{
			name:           "slice count",
			text:           "1 slice of pizza",
			wantMultiplier: 1.0,
			wantLabel:      "1 piece",
		},
		{
			name:           "size word small",
			text:           "a small apple",
			wantMultiplier: 0.75,
			wantLabel:      "small",
		},
		{
			name:           "size word large",
			text:           "large burger",
			wantMultiplier: 1.5,
			wantLabel:      "large",
		},
		{
			name:           "size word huge",
			text:           "huge bowl of pasta",
			wantMultiplier: 2.0,
			wantLabel:      "huge",
		},
		{
			name:           "no portion defaults to one serving",
			text:           "grilled chicken",
			wantMultiplier: 1.0,
			wantLabel:      "1 serving",
		},
		{
			name:           "ounces win over size words",
			text:           "a large 8oz steak",
			wantMultiplier: 2.0,
			wantLabel:      "8 oz",
		},
		{
			name:           "ounces win over cups",
			text:           "4oz rice and 2 cups of milk",
			wantMultiplier: 1.0,
			wantLabel:      "4 oz",
		},
		{
			name:           "unparseable unit mention falls through to default",
			text:           "a few oz of chicken",
			wantMultiplier: 1.0,
			wantLabel:      "1 serving",
		},
		{
			name:           "uppercase input",
			text:           "8OZ GRILLED CHICKEN",
			wantMultiplier: 2.0,
			wantLabel:      "8 oz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			multiplier, label := ResolvePortion(tt.text)
			if multiplier != tt.wantMultiplier {
				t.Errorf("ResolvePortion(%q) multiplier = %v, want %v", tt.text, multiplier, tt.wantMultiplier)
			}
			if label != tt.wantLabel {
				t.Errorf("ResolvePortion(%q) label = %q, want %q", tt.text, label, tt.wantLabel)
			}
		})
	}
}
